/*
Package chart renders a growing series of latencies as an ASCII bar chart that
always fits the terminal, with one bar per line:

	--------*
	------------------*
	-----------*

Instead of scrolling older values out of view, a [Chart] compresses its whole
history: when there are more values than rows, consecutive values are
averaged into bins. The bar lengths are scaled relative to the largest value
ever seen, so the longest bar always spans the chart's full width until a new
maximum arrives.
*/
package chart
