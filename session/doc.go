/*
Package session wires probe output into the reply parser, the sequence
tracker, and the chart:

	                                 +-> sequence.Tracker
	probe output --> reply.Scanner --+
	                                 +-> chart.Chart --> chart.Surface

A [Session] runs this pipeline synchronously: each reply gets checked, added,
and rendered before the next line of probe output is read.
*/
package session
