// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sequence

import (
	"github.com/siemens/liveping/types"
)

// Tracker checks the sequence numbers of a stream of replies for integrity,
// reporting skipped and out-of-order replies. A Tracker only remembers the
// most recent reply; it never buffers or reorders replies.
//
// A Tracker isn't safe for concurrent use.
type Tracker struct {
	reporter types.Reporter
	last     types.Reply
	seen     bool
	stats    Stats
}

// Stats counts the replies pushed into a [Tracker] and the anomalies found.
type Stats struct {
	Replies   int `json:"replies"`   // number of replies pushed
	Skips     int `json:"skips"`     // number of skip anomalies
	Missing   int `json:"missing"`   // total number of skipped sequence numbers
	Reorders  int `json:"reorders"`  // number of reorder anomalies
	Anomalies int `json:"anomalies"` // skips and reorders
}

// New returns a new Tracker reporting anomalies to the specified reporter. A
// nil reporter discards all reports.
func New(reporter types.Reporter) *Tracker {
	if reporter == nil {
		reporter = types.Discard
	}
	return &Tracker{reporter: reporter}
}

// Push the next reply, as it arrived, and return the kind of anomaly detected,
// if any. The reply's sequence number is checked against the sequence number
// of the previously pushed reply plus one:
//   - same: no anomaly, [types.NoEvent] is returned.
//   - larger: one or more replies got skipped (lost), [types.Skipped].
//   - smaller: the reply arrived out of order, [types.Reordered].
//
// The very first reply is never an anomaly. The pushed reply always becomes
// the most recent reply, whatever the outcome.
func (t *Tracker) Push(r types.Reply) types.EventKind {
	kind := types.NoEvent
	if t.seen {
		expected := t.last.Seq + 1
		switch {
		case r.Seq > expected:
			kind = types.Skipped
			t.stats.Skips++
			t.stats.Missing += r.Seq - expected
		case r.Seq < expected:
			kind = types.Reordered
			t.stats.Reorders++
		}
		if kind != types.NoEvent {
			t.stats.Anomalies++
			t.reporter.Report(types.Event{
				Kind:     kind,
				Observed: r.Seq,
				Expected: expected,
			})
		}
	}
	t.last = r
	t.seen = true
	t.stats.Replies++
	return kind
}

// Last returns the most recently pushed reply and true, or false if there
// hasn't been any reply pushed yet.
func (t *Tracker) Last() (types.Reply, bool) {
	return t.last, t.seen
}

// Stats returns the current statistics.
func (t *Tracker) Stats() Stats {
	return t.stats
}
