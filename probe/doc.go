/*
Package probe runs latency probes producing ping-formatted output.

A [Source] is either an external probe command started using [Exec], which by
default is the system's ping command, or an in-process ICMP pinger started
using [Native]. Either way, the output is line-oriented text, with replies
such as

	64 bytes from 127.0.0.1: icmp_req=3 ttl=64 time=0.045 ms

interleaved with banner and summary lines. Sources are stopped by cancelling
the context they have been started with.

# Acknowledgements

The native pinger leverages [go-ping/ping].

[go-ping/ping]: https://github.com/go-ping/ping
*/
package probe
