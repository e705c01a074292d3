// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"io"
	"math"
	"strconv"
	"time"
)

// DefaultCommand is the external probe command run by [Exec].
const DefaultCommand = "ping"

// options configure probe sources; not all options apply to all sources.
type options struct {
	command      string        // external probe command.
	count        uint          // number of probes to send, or 0 for unlimited.
	deadline     time.Duration // overall time limit, or 0 for none.
	interval     time.Duration // distance between probes (native only).
	unprivileged bool          // UDP instead of raw ICMP sockets (native only).
	stderr       io.Writer     // where the command's stderr goes to (exec only).
}

// Option can be passed to Exec and Native when starting probe sources.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		command:  DefaultCommand,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCount sets the number of probes to send before the probe stops. Zero
// means to probe until cancelled.
func WithCount(count uint) Option {
	return func(o *options) {
		o.count = count
	}
}

// WithDeadline sets an overall time limit after which the probe stops,
// regardless of how many probes have been sent. The external probe command
// only accepts whole seconds, so the deadline gets rounded up.
func WithDeadline(deadline time.Duration) Option {
	return func(o *options) {
		o.deadline = deadline
	}
}

// WithInterval sets the interval between consecutive probes of a native
// pinger.
func WithInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

// WithCommand sets the external probe command to run instead of "ping".
func WithCommand(command string) Option {
	return func(o *options) {
		if command != "" {
			o.command = command
		}
	}
}

// WithStderr passes the external probe command's error output to w; it is
// discarded otherwise.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// AsUnprivileged tells a native pinger to carry out unprivileged pings using
// UDP instead of ICMP packets.
func AsUnprivileged() Option {
	return func(o *options) {
		o.unprivileged = true
	}
}

// args returns the command line arguments for probing the specified host.
func (o *options) args(host string) []string {
	args := []string{host}
	if o.count != 0 {
		args = append(args, "-c", strconv.FormatUint(uint64(o.count), 10))
	}
	if o.deadline > 0 {
		args = append(args, "-w", strconv.Itoa(int(math.Ceil(o.deadline.Seconds()))))
	}
	return args
}
