// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"

	"github.com/thediveo/lxkns/log"
)

// EventKind indicates the kind of a diagnostic [Event], such as a skipped or
// reordered reply.
type EventKind int

// The kinds of diagnostic events.
const (
	NoEvent   EventKind = iota // nothing noteworthy happened.
	Skipped                    // one or more sequence numbers went missing.
	Reordered                  // a reply arrived with an older sequence number.
	Rescaled                   // the chart's maximum value increased.
	Rendered                   // the chart rendered a frame.
)

// String returns the clear-text representation of an EventKind value.
func (k EventKind) String() string {
	switch k {
	case NoEvent:
		return "none"
	case Skipped:
		return "skipped"
	case Reordered:
		return "reordered"
	case Rescaled:
		return "rescaled"
	case Rendered:
		return "rendered"
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// IsAnomaly returns true for sequence integrity violations.
func (k EventKind) IsAnomaly() bool {
	return k == Skipped || k == Reordered
}

// Event describes a single diagnostic occurrence. Which fields are meaningful
// depends on the Kind: sequence anomalies carry the Observed and Expected
// sequence numbers, chart events the Value, Scale and binning details.
type Event struct {
	Kind     EventKind `json:"kind"`
	Observed int       `json:"observed,omitempty"` // observed sequence number
	Expected int       `json:"expected,omitempty"` // expected sequence number
	Value    float64   `json:"value,omitempty"`    // new chart maximum
	Scale    float64   `json:"scale,omitempty"`    // chart scale factor
	BinWidth int       `json:"binwidth,omitempty"` // samples per chart row
	BinCount int       `json:"bincount,omitempty"` // chart rows rendered
}

// String returns a human-readable description of the event.
func (e Event) String() string {
	switch e.Kind {
	case Skipped:
		return fmt.Sprintf("skipped %d reply(s): got seq %d, expected %d",
			e.Observed-e.Expected, e.Observed, e.Expected)
	case Reordered:
		return fmt.Sprintf("out of order reply: got seq %d, expected %d",
			e.Observed, e.Expected)
	case Rescaled:
		return fmt.Sprintf("new maximum %s ms", FormatRTT(e.Value))
	case Rendered:
		return fmt.Sprintf("width: %d, scale: %g, count: %d",
			e.BinWidth, e.Scale, e.BinCount)
	}
	return e.Kind.String()
}

// Reporter is a diagnostic sink receiving events from the sequence tracker
// and the chart.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts an ordinary function into a [Reporter].
type ReporterFunc func(Event)

// Report calls f(ev).
func (f ReporterFunc) Report(ev Event) { f(ev) }

// Discard is a [Reporter] that silently drops all events.
var Discard Reporter = ReporterFunc(func(Event) {})

// LogReporter is a [Reporter] that logs sequence anomalies as errors and
// chart events as debug messages.
var LogReporter Reporter = ReporterFunc(logEvent)

func logEvent(ev Event) {
	switch {
	case ev.Kind.IsAnomaly():
		log.Errorf("%s", ev)
	case ev.Kind != NoEvent:
		log.Debugf("%s", ev)
	}
}
