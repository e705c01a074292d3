// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// ResolvConf is the resolver configuration file consulted by DefaultServer.
var ResolvConf = "/etc/resolv.conf"

// DefaultTimeout limits each single DNS exchange, unless overridden using
// [WithTimeout].
const DefaultTimeout = 2 * time.Second

var (
	// ErrNoSuchHost signals that the DNS server doesn't know the name at all.
	ErrNoSuchHost = errors.New("no such host")
	// ErrNoAddresses signals that the name exists, but without any A or AAAA
	// records.
	ErrNoAddresses = errors.New("no addresses")
)

// Resolver looks up host addresses, talking to a single DNS server over a
// fixed number of client connections. Each connection carries only one
// exchange at a time, so there are never more queries in flight than
// connections.
type Resolver struct {
	server  string
	client  *dns.Client
	workers *workerpool.WorkerPool
	idle    chan *dns.Conn
}

// Option can be passed to New when creating new Resolver objects.
type Option func(*Resolver)

// WithNetwork sets the network to talk DNS over: "udp" (default), "tcp", or
// "tcp-tls".
func WithNetwork(network string) Option {
	return func(r *Resolver) {
		r.client.Net = network
	}
}

// WithTimeout sets the time limit of each single DNS exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.client.Timeout = timeout
		}
	}
}

// New returns a new Resolver with the specified number of client connections
// to the DNS server at addr. The context is only used while connecting. New
// panics if size isn't positive.
func New(ctx context.Context, addr string, size int, options ...Option) (*Resolver, error) {
	if size < 1 {
		panic(fmt.Errorf("Resolver: size must be positive, got: %d", size))
	}
	r := &Resolver{
		server: addr,
		client: &dns.Client{Net: "udp", Timeout: DefaultTimeout},
		idle:   make(chan *dns.Conn, size),
	}
	for _, opt := range options {
		opt(r)
	}
	for len(r.idle) < size {
		conn, err := r.client.DialContext(ctx, addr)
		if err != nil {
			r.release()
			return nil, fmt.Errorf("cannot connect to DNS server %s: %w", addr, err)
		}
		r.idle <- conn
	}
	r.workers = workerpool.New(size)
	return r, nil
}

// Do queues fn to be run with the next idle connection. Do doesn't wait for fn
// to run.
func (r *Resolver) Do(fn func(conn *dns.Conn)) {
	r.workers.Submit(func() {
		conn := <-r.idle
		defer func() { r.idle <- conn }()
		fn(conn)
	})
}

// LookupHost returns the IPv4 addresses followed by the IPv6 addresses of the
// specified host name. The A and AAAA queries run concurrently as far as idle
// connections allow. Names not ending in a dot are taken as fully qualified
// nevertheless.
//
// A failing query doesn't spoil the addresses of the other query. LookupHost
// only returns an error when neither query yields any address.
func (r *Resolver) LookupHost(ctx context.Context, name string) ([]string, error) {
	qtypes := []uint16{dns.TypeA, dns.TypeAAAA}
	addrs := make([][]string, len(qtypes))
	errs := make([]error, len(qtypes))
	var wg sync.WaitGroup
	wg.Add(len(qtypes))
	for idx, qtype := range qtypes {
		idx, qtype := idx, qtype
		r.Do(func(conn *dns.Conn) {
			defer wg.Done()
			addrs[idx], errs[idx] = r.query(ctx, conn, name, qtype)
		})
	}
	wg.Wait()

	var all []string
	var firstErr error
	for idx, qtype := range qtypes {
		if errs[idx] != nil {
			log.Debugf("%s query for %q failed: %s", dns.TypeToString[qtype], name, errs[idx])
			if firstErr == nil {
				firstErr = errs[idx]
			}
			continue
		}
		all = append(all, addrs[idx]...)
	}
	if len(all) > 0 {
		return all, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, fmt.Errorf("cannot resolve %q: %w", name, ErrNoAddresses)
}

// query asks for the records of the specified type (A or AAAA) and returns the
// addresses from the answer section.
func (r *Resolver) query(ctx context.Context, conn *dns.Conn, name string, qtype uint16) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg := new(dns.Msg).SetQuestion(dns.Fqdn(name), qtype) // ...recursion desired
	resp, _, err := r.client.ExchangeWithConn(msg, conn)
	if err != nil {
		return nil, fmt.Errorf("cannot query %s for %q: %w", r.server, name, err)
	}
	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, fmt.Errorf("cannot resolve %q: %w", name, ErrNoSuchHost)
	default:
		return nil, fmt.Errorf("cannot resolve %q: %s %s",
			name, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}
	var addrs []string
	for _, rr := range resp.Answer {
		switch rr := rr.(type) {
		case *dns.A:
			addrs = append(addrs, rr.A.String())
		case *dns.AAAA:
			addrs = append(addrs, rr.AAAA.String())
		}
	}
	return addrs, nil
}

// Close waits for all queued work to finish and then closes the connections.
func (r *Resolver) Close() {
	r.workers.StopWait()
	r.release()
}

func (r *Resolver) release() {
	for {
		select {
		case conn := <-r.idle:
			conn.Close()
		default:
			return
		}
	}
}

// DefaultServer returns the address of the first name server configured in
// [ResolvConf].
func DefaultServer() (string, error) {
	cfg, err := dns.ClientConfigFromFile(ResolvConf)
	if err != nil {
		return "", fmt.Errorf("cannot read resolver configuration: %w", err)
	}
	if len(cfg.Servers) == 0 {
		return "", fmt.Errorf("no name servers configured in %s", ResolvConf)
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port), nil
}

// Lookup returns the IPv4 and IPv6 addresses of the specified host, asking
// the DNS server at addr, or the [DefaultServer] if addr is empty. IP address
// literals are returned as is, without asking any DNS server.
func Lookup(ctx context.Context, host string, addr string) ([]string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []string{ip.String()}, nil
	}
	if addr == "" {
		var err error
		if addr, err = DefaultServer(); err != nil {
			return nil, err
		}
	}
	r, err := New(ctx, addr, 2)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.LookupHost(ctx, host)
}
