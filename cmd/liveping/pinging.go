// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siemens/liveping/chart"
	"github.com/siemens/liveping/probe"
	"github.com/siemens/liveping/resolve"
	"github.com/siemens/liveping/screen"
	"github.com/siemens/liveping/sequence"
	"github.com/siemens/liveping/session"
	"github.com/siemens/liveping/types"

	"github.com/thediveo/lxkns/log"
	"golang.org/x/term"
)

// PingAndChart pings the specified host and live-charts the round-trip times
// of the replies to w, until pinging ends or the context is done. Skipped and
// out-of-order replies get logged, unless running quietly.
func PingAndChart(ctx context.Context, host string, cfg *config, w io.Writer, errw io.Writer) error {
	if cfg.Resolve {
		addrs, err := resolve.Lookup(ctx, host, cfg.Resolver)
		if err != nil {
			return fmt.Errorf("cannot resolve %q: %w", host, err)
		}
		log.Infof("%s resolves to %s", host, strings.Join(addrs, ", "))
	}

	reporter := types.LogReporter
	if cfg.Quiet {
		reporter = types.Discard
	}

	width, height := chartSize(cfg, w)
	log.Debugf("chart size %dx%d", width, height)
	out := screen.NewTerminal(w)
	var surface chart.Surface = out
	if cfg.InPlace {
		surface = screen.NewInPlace(w)
	}
	c := chart.New(width, height,
		chart.WithReporter(reporter),
		chart.WithTipStyle(out.Styler(tipColor)))

	// Make sure to take the probe down with us in case we need to bail out
	// before the probe has ended on its own.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	src, err := startProbe(ctx, host, cfg, errw)
	if err != nil {
		return err
	}

	sess := session.New(sequence.New(reporter), c, surface,
		session.WithParserOptions(parserOptions(cfg)...))
	runErr := sess.Run(ctx, src.Output())
	if runErr != nil {
		cancel()
	}
	if err := src.Wait(); err != nil {
		log.Warnf("%s", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if !cfg.Quiet {
		fmt.Fprintf(w, "%s: %s\n", host, sess.Summary())
	}
	return nil
}

// startProbe starts either the external ping command or the in-process
// pinger, depending on the configuration.
func startProbe(ctx context.Context, host string, cfg *config, errw io.Writer) (probe.Source, error) {
	opts := []probe.Option{
		probe.WithCount(cfg.Count),
		probe.WithDeadline(cfg.Deadline),
	}
	if cfg.Native {
		opts = append(opts, probe.WithInterval(cfg.Interval))
		if cfg.Unprivileged {
			opts = append(opts, probe.AsUnprivileged())
		}
		log.Debugf("pinging %s natively", host)
		return probe.Native(ctx, host, opts...)
	}
	opts = append(opts, probe.WithCommand(cfg.Command), probe.WithStderr(errw))
	log.Debugf("pinging %s using %q", host, cfg.Command)
	return probe.Exec(ctx, host, opts...)
}

// chartSize returns the configured chart size, or the terminal's size when
// fitting and w is a terminal. When fitting, one line and column are left
// free to keep the terminal from scrolling or wrapping.
func chartSize(cfg *config, w io.Writer) (width, height int) {
	width, height = cfg.Width, cfg.Height
	if !cfg.Fit {
		return
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		log.Debugf("not a terminal, keeping chart size")
		return
	}
	tw, th, err := screen.Size(int(f.Fd()))
	if err != nil {
		log.Warnf("%s", err)
		return
	}
	if tw > 1 {
		width = tw - 1
	}
	if th > 1 {
		height = th - 1
	}
	return
}
