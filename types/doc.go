/*
Package types defines liveping's information model. Which is rather simple and
mainly revolves around a [Reply], that is, a single round-trip measurement, as
well as diagnostic [Event] values that are handed to a [Reporter].

# Reporters

The sequence tracker and the chart don't log on their own. Instead, they get a
[Reporter] passed in when they are created and report whatever they consider
noteworthy: sequence anomalies such as skipped and reordered replies, but also
chart rescaling and rendering details. Use [LogReporter] to get the events
logged, or [Discard] to keep things quiet.
*/
package types
