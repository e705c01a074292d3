// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Reply is a single probe reply, that is, one round-trip measurement as
// reported by a probe such as ping. Replies are values and never change after
// having been parsed.
type Reply struct {
	Size    int     `json:"size"`    // reply size in bytes
	Address string  `json:"address"` // replying address, opaque
	Seq     int     `json:"seq"`     // probe-assigned sequence number
	TTL     int     `json:"ttl"`     // time-to-live of the reply
	RTT     float64 `json:"rtt"`     // round-trip time in milliseconds
}

// String returns the reply in the same textual form a probe would report it.
func (r Reply) String() string {
	return fmt.Sprintf("%d bytes from %s: icmp_req=%d ttl=%d time=%s ms",
		r.Size, r.Address, r.Seq, r.TTL, FormatRTT(r.RTT))
}

// FormatRTT formats a round-trip time in milliseconds the way ping does:
// three significant digits, but never fewer than the integer part.
func FormatRTT(ms float64) string {
	switch {
	case ms >= 100:
		return fmt.Sprintf("%.0f", ms)
	case ms >= 10:
		return fmt.Sprintf("%.1f", ms)
	case ms >= 1:
		return fmt.Sprintf("%.2f", ms)
	}
	return fmt.Sprintf("%.3f", ms)
}
