// Package report selects and renders the results of a profiling session.
//
// A [Filter] narrows a [stats.Report] to a [View]: entities matching a fuzzy
// pattern and a boolean expression, truncated to a count after sorting. A
// View renders in one of several [Format]s. The text formats (table, graph
// and tree) are colorized on a log-scaled blue-to-red [Gradient] when the
// output is a terminal. The data formats (json and yaml) carry the full
// statistics and the path tree. The pprof format writes a gzipped profile
// readable by "go tool pprof", with one frame per path tree node.
package report
