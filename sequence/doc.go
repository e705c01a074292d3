/*
Package sequence implements a diagnostic integrity check of reply sequence
numbers.

Probes such as ping number their requests, so replies arriving with a gap in
their sequence numbers indicate lost requests or replies, whereas replies with
a sequence number smaller than expected have been overtaken. A [Tracker]
reports such anomalies to a [types.Reporter], but otherwise accepts all
replies as they arrive.
*/
package sequence
