// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/siemens/liveping/types"
)

// Surface is where a [Chart] renders its frames to. Each frame starts with
// Clear, then the frame's lines get written, and finally Flush gets called.
type Surface interface {
	io.Writer
	Clear() error
	Flush() error
}

// Bar is a single chart row, representing the mean of a bin of consecutive
// samples, with the mean rescaled to the bar length.
type Bar struct {
	Mean   float64 `json:"mean"`
	Length int     `json:"length"`
}

// Chart renders an unbounded, growing series of (non-negative) values as a bar
// chart of fixed width and height, always showing the whole series. The older
// the series gets, the more consecutive values are averaged into a single bar.
//
// A Chart isn't safe for concurrent use.
type Chart struct {
	width    int             // maximum bar length.
	height   int             // maximum number of bars.
	samples  []float64       // all values added so far.
	max      float64         // maximum of all values added so far.
	fill     string          // bar fill.
	tip      string          // bar tip.
	tipStyle func(string) string
	reporter types.Reporter
}

// ChartOption can be passed to New when creating new Chart objects.
type ChartOption func(*Chart)

// WithReporter sets the reporter receiving rescaling and rendering events.
func WithReporter(r types.Reporter) ChartOption {
	return func(c *Chart) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithBarRunes sets the runes used to draw the bars: their fill and the tip.
func WithBarRunes(fill, tip rune) ChartOption {
	return func(c *Chart) {
		c.fill = string(fill)
		c.tip = string(tip)
	}
}

// WithTipStyle sets a function styling the bar tips, such as coloring them.
func WithTipStyle(style func(string) string) ChartOption {
	return func(c *Chart) {
		if style != nil {
			c.tipStyle = style
		}
	}
}

// New returns a new Chart of the specified width and height, with bars made
// of "-" and tipped by "*". New panics if either width or height isn't
// positive.
//
// The chart can be configured during creation using several options:
//   - [WithReporter]
//   - [WithBarRunes]
//   - [WithTipStyle]
func New(width, height int, options ...ChartOption) *Chart {
	if width <= 0 || height <= 0 {
		panic(fmt.Errorf("Chart: width and height must be positive, got: %dx%d",
			width, height))
	}
	c := &Chart{
		width:    width,
		height:   height,
		fill:     "-",
		tip:      "*",
		tipStyle: func(s string) string { return s },
		reporter: types.Discard,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Add a value to the chart, raising the chart's maximum if necessary.
func (c *Chart) Add(value float64) {
	c.samples = append(c.samples, value)
	if value > c.max {
		c.max = value
		c.reporter.Report(types.Event{
			Kind:  types.Rescaled,
			Value: value,
			Scale: c.scale(),
		})
	}
}

// Len returns the number of values added so far.
func (c *Chart) Len() int { return len(c.samples) }

// Max returns the maximum of all values added so far, or 0 if none.
func (c *Chart) Max() float64 { return c.max }

// scale returns the factor converting a value into a bar length. As long as
// there is no positive maximum the factor defaults to 1.
func (c *Chart) scale() float64 {
	if c.max <= 0 {
		return 1
	}
	return float64(c.width) / c.max
}

// Bars returns the bars currently making up the chart. The values are binned
// so that there are never more bars than the chart is high: each bin spans
// ceil(n/height) consecutive values. A trailing bin that isn't yet full is
// left out until enough further values have been added.
func (c *Chart) Bars() []Bar {
	bars, _ := c.bars()
	return bars
}

func (c *Chart) bars() ([]Bar, int) {
	n := len(c.samples)
	if n == 0 {
		return nil, 0
	}
	binWidth := (n + c.height - 1) / c.height
	binCount := n / binWidth
	scale := c.scale()
	bars := make([]Bar, binCount)
	for idx := range bars {
		sum := 0.0
		for _, value := range c.samples[idx*binWidth : (idx+1)*binWidth] {
			sum += value
		}
		mean := sum / float64(binWidth)
		bars[idx] = Bar{
			Mean:   mean,
			Length: int(math.Round(mean * scale)),
		}
	}
	return bars, binWidth
}

// Render a full frame of the chart to the specified surface: the surface is
// cleared first, then a line is written for each bar, and finally the surface
// gets flushed. Without any values only the surface gets cleared.
func (c *Chart) Render(s Surface) error {
	if err := s.Clear(); err != nil {
		return err
	}
	bars, binWidth := c.bars()
	var frame strings.Builder
	tip := c.tipStyle(c.tip)
	for _, bar := range bars {
		if fill := bar.Length - 1; fill > 0 {
			frame.WriteString(strings.Repeat(c.fill, fill))
		}
		frame.WriteString(tip)
		frame.WriteByte('\n')
	}
	if _, err := io.WriteString(s, frame.String()); err != nil {
		return err
	}
	c.reporter.Report(types.Event{
		Kind:     types.Rendered,
		Scale:    c.scale(),
		BinWidth: binWidth,
		BinCount: len(bars),
	})
	return s.Flush()
}
