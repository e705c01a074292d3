// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/siemens/liveping/types"

	"github.com/go-ping/ping"
)

// Pinger is an in-process ICMP pinger that renders its replies in the same
// textual form as the ping command, so both can be consumed the same way.
type Pinger struct {
	ctx    context.Context
	pinger *ping.Pinger
	out    *io.PipeReader
	done   chan struct{}
	err    error
}

var _ Source = (*Pinger)(nil)

// Native starts pinging the specified host from inside this process; only
// IPv4 is supported, as the reply grammar has no room for IPv6 addresses.
// Native can be configured using the [WithCount], [WithDeadline],
// [WithInterval], and [AsUnprivileged] options.
//
// Unless unprivileged, pinging requires the CAP_NET_RAW capability. For
// unprivileged pings the ping group range (net.ipv4.ping_group_range) needs
// to cover the process' group.
//
// The pinger stops when the passed context is done.
func Native(ctx context.Context, host string, options ...Option) (*Pinger, error) {
	opts := newOptions(options)
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return nil, fmt.Errorf("cannot ping %q: %w", host, err)
	}
	pinger.SetNetwork("ip4")
	if err := pinger.SetAddr(host); err != nil {
		return nil, fmt.Errorf("cannot ping %q: %w", host, err)
	}
	pinger.SetPrivileged(!opts.unprivileged)
	if opts.count != 0 {
		pinger.Count = int(opts.count)
	}
	pinger.Interval = opts.interval
	if opts.deadline > 0 {
		pinger.Timeout = opts.deadline
	}

	r, pw := io.Pipe()
	pinger.OnRecv = func(pkt *ping.Packet) {
		fmt.Fprintln(pw, types.Reply{
			Size:    pkt.Nbytes,
			Address: pkt.IPAddr.String(),
			Seq:     pkt.Seq,
			TTL:     pkt.Ttl,
			RTT:     millis(pkt.Rtt),
		})
	}
	pinger.OnFinish = func(stats *ping.Statistics) {
		fmt.Fprintf(pw, "\n--- %s ping statistics ---\n", stats.Addr)
		fmt.Fprintf(pw, "%d packets transmitted, %d received, %g%% packet loss\n",
			stats.PacketsSent, stats.PacketsRecv, stats.PacketLoss)
		if stats.PacketsRecv > 0 {
			fmt.Fprintf(pw, "rtt min/avg/max/mdev = %s/%s/%s/%s ms\n",
				types.FormatRTT(millis(stats.MinRtt)), types.FormatRTT(millis(stats.AvgRtt)),
				types.FormatRTT(millis(stats.MaxRtt)), types.FormatRTT(millis(stats.StdDevRtt)))
		}
	}

	p := &Pinger{
		ctx:    ctx,
		pinger: pinger,
		out:    r,
		done:   make(chan struct{}),
	}
	go p.run(pw)
	return p, nil
}

// run the pinger until it has finished or the context is done, and then close
// the output.
func (p *Pinger) run(pw *io.PipeWriter) {
	defer close(p.done)
	// While the ping is running, we need to monitor the context in case it
	// becomes done. The stopped channel here works "the other way round" in
	// the sense that it terminates the concurrent context monitoring. Closing
	// the reading end unblocks any reply still being written with nobody
	// reading anymore.
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-p.ctx.Done():
			p.pinger.Stop()
			p.out.CloseWithError(p.ctx.Err())
		case <-stopped:
		}
	}()
	fmt.Fprintf(pw, "PING %s (%s) %d bytes of data.\n",
		p.pinger.Addr(), p.pinger.IPAddr(), p.pinger.Size)
	p.err = p.pinger.Run()
	pw.CloseWithError(p.err)
}

// Output returns the pinger's output in the ping command's format.
func (p *Pinger) Output() io.Reader { return p.out }

// Wait for the pinger to finish. It returns an error if pinging failed, but
// not when the context is done.
func (p *Pinger) Wait() error {
	<-p.done
	if p.ctx.Err() != nil || p.err == nil {
		return nil
	}
	return fmt.Errorf("pinging %q failed: %w", p.pinger.Addr(), p.err)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
