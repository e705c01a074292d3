/*
Package resolve looks up the addresses of a probe target before probing
starts, talking directly to a DNS server instead of going through the system
resolver.

For a one-off lookup using the first name server from /etc/resolv.conf:

	addrs, err := resolve.Lookup(ctx, "example.org", "")

For repeated lookups, create a [Resolver] with a limited number of
connections and thus concurrent queries:

	r, err := resolve.New(ctx, "127.0.0.1:53", 4)
	addrs, err := r.LookupHost(ctx, "example.org")
	r.Close()

# Acknowledgements

Under its hood, [Resolver] leverages [gammazero/workerpool] as the limiting
goroutine pool and [miekg/dns] for talking DNS.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[miekg/dns]: https://github.com/miekg/dns
*/
package resolve
