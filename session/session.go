// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"fmt"
	"io"

	"github.com/siemens/liveping/chart"
	"github.com/siemens/liveping/reply"
	"github.com/siemens/liveping/sequence"
	"github.com/siemens/liveping/types"

	"github.com/dustin/go-humanize"
	"github.com/thediveo/lxkns/log"
)

// Session feeds the replies found in probe output into a sequence tracker and
// a chart, rendering the chart after each reply.
type Session struct {
	tracker    *sequence.Tracker
	chart      *chart.Chart
	surface    chart.Surface
	parserOpts []reply.ParserOption
}

// Option can be passed to New when creating new Session objects.
type Option func(*Session)

// WithParserOptions passes the specified options on to the reply parser.
func WithParserOptions(options ...reply.ParserOption) Option {
	return func(s *Session) {
		s.parserOpts = append(s.parserOpts, options...)
	}
}

// New returns a new Session checking the reply sequence using the specified
// tracker, and rendering the reply latencies using the specified chart to the
// specified surface.
func New(tracker *sequence.Tracker, c *chart.Chart, surface chart.Surface, options ...Option) *Session {
	s := &Session{
		tracker: tracker,
		chart:   c,
		surface: surface,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run reads probe output from r until it ends, one line at a time. For each
// reply, Run first checks its sequence number, then adds its round-trip time
// to the chart, and finally renders the chart, before reading the next line.
//
// Run returns nil when the probe output has ended. It returns early with the
// context's error when the context is done, and with a read or render error
// otherwise.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	sc := reply.NewScanner(r, s.parserOpts...)
	defer func() {
		log.Debugf("skipped %d non-reply lines", sc.Skipped())
	}()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Push(sc.Reply())
		if err := s.chart.Render(s.surface); err != nil {
			return fmt.Errorf("cannot render chart: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		if ctxerr := ctx.Err(); ctxerr != nil {
			return ctxerr
		}
		return fmt.Errorf("cannot read probe output: %w", err)
	}
	return nil
}

// Push a single reply into the sequence tracker and chart, without rendering.
func (s *Session) Push(r types.Reply) {
	s.tracker.Push(r)
	s.chart.Add(r.RTT)
}

// Summary returns a one-line summary of the replies seen so far.
func (s *Session) Summary() string {
	stats := s.tracker.Stats()
	return fmt.Sprintf("%s replies, %s skipped (%s missing), %s out of order, max %s ms",
		humanize.Comma(int64(stats.Replies)),
		humanize.Comma(int64(stats.Skips)),
		humanize.Comma(int64(stats.Missing)),
		humanize.Comma(int64(stats.Reorders)),
		types.FormatRTT(s.chart.Max()))
}
