// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package screen

import (
	"fmt"
	"io"

	"github.com/gosuri/uilive"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal is a surface that clears the whole terminal screen at the start of
// each frame and then writes the frame lines unbuffered.
type Terminal struct {
	w   io.Writer
	out *termenv.Output
}

// NewTerminal returns a new Terminal surface writing to w. The termenv output
// options are passed on, so for instance the color profile can be fixed using
// termenv.WithProfile instead of detecting it from the environment.
func NewTerminal(w io.Writer, options ...termenv.OutputOption) *Terminal {
	return &Terminal{
		w:   w,
		out: termenv.NewOutput(w, options...),
	}
}

// Write writes the specified frame data to the terminal.
func (t *Terminal) Write(p []byte) (int, error) { return t.w.Write(p) }

// Clear the screen and move the cursor into the top-left corner.
func (t *Terminal) Clear() error {
	t.out.ClearScreen()
	return nil
}

// Flush is a no-op, as writes are unbuffered.
func (t *Terminal) Flush() error { return nil }

// Styler returns a function that colors strings in the specified foreground
// color, as far as the terminal's color profile allows.
func (t *Terminal) Styler(color termenv.Color) func(string) string {
	color = t.out.Convert(color)
	if _, ok := color.(termenv.NoColor); ok {
		return func(s string) string { return s }
	}
	return func(s string) string {
		return t.out.String(s).Foreground(color).String()
	}
}

// InPlace is a surface that buffers a frame and on flush overwrites the
// previous frame in place instead of clearing the whole screen. This leaves
// any terminal output above the chart intact.
type InPlace struct {
	w *uilive.Writer
}

// NewInPlace returns a new InPlace surface writing to w.
func NewInPlace(w io.Writer) *InPlace {
	// Dunno what uilive's background updating mode using Start() is good for?
	// It may trigger anytime with the rendering into the buffer not yet
	// complete, so we never Start() and instead explicitly Flush.
	lw := uilive.New()
	lw.Out = w
	return &InPlace{w: lw}
}

// Write buffers the specified frame data until the next Flush.
func (p *InPlace) Write(b []byte) (int, error) { return p.w.Write(b) }

// Clear is a no-op, as Flush overwrites the previous frame anyway.
func (p *InPlace) Clear() error { return nil }

// Flush overwrites the previous frame with the buffered one.
func (p *InPlace) Flush() error { return p.w.Flush() }

// Size returns the width and height of the terminal referenced by the
// specified file descriptor.
func Size(fd int) (width, height int, err error) {
	width, height, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot determine terminal size: %w", err)
	}
	return width, height, nil
}
