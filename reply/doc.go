/*
Package reply parses the output of ping-like probes into [types.Reply] values.

Only lines of the form

	64 bytes from 127.0.0.1: icmp_req=3 ttl=64 time=0.045 ms

are replies; everything else, such as banners, summaries, and error messages,
is silently passed over. This is by intention, so the probe output can be fed
in unfiltered.

	            +---+
	io.Reader-->| S +-->Reply, Reply, ...
	            +---+

[Scanner] yields replies lazily, one at a time, as the probe emits them.
*/
package reply
