// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Source is a running probe producing line-oriented output, such as ping
// replies interleaved with banners and summaries. The output ends when the
// probe terminates.
type Source interface {
	// Output returns the probe's output; it must be read until EOF before
	// calling Wait.
	Output() io.Reader
	// Wait waits for the probe to terminate and releases its resources.
	Wait() error
}

// Process is an external probe command, such as "ping", running as a child
// process.
type Process struct {
	ctx    context.Context
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

var _ Source = (*Process)(nil)

// Exec starts an external probe command for the specified host, defaulting to
// "ping". The command gets invoked as:
//
//	ping host [-c count] [-w deadline]
//
// Exec can be configured using the [WithCommand], [WithCount],
// [WithDeadline], and [WithStderr] options.
//
// The probe command gets killed when the passed context is done. This
// doesn't count as an error, but instead as the ordinary end of the probe
// output.
func Exec(ctx context.Context, host string, options ...Option) (*Process, error) {
	opts := newOptions(options)
	cmd := exec.CommandContext(ctx, opts.command, opts.args(host)...)
	cmd.Stderr = opts.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("cannot connect to probe command %q: %w", opts.command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start probe command %q: %w", opts.command, err)
	}
	return &Process{
		ctx:    ctx,
		cmd:    cmd,
		stdout: stdout,
	}, nil
}

// Output returns the standard output of the probe command.
func (p *Process) Output() io.Reader { return p.stdout }

// Wait for the probe command to exit. It returns an error if the command
// exited unsuccessfully, unless it got killed because the context is done.
func (p *Process) Wait() error {
	err := p.cmd.Wait()
	if p.ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("probe command %q failed: %w", p.cmd.Path, err)
	}
	return nil
}
