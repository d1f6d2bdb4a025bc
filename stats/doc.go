// Package stats reduces per-run observations into summary statistics.
//
// Statistics that cannot be computed are never represented as NaN. A [Value]
// carries an explicit state instead: [NotApplicable] for the spread of a
// single observation, and [NoData] for ratios against a zero reference or
// reductions over an empty sequence. A Value is safe to format, compare and
// marshal without risking silent numeric corruption.
//
// [Analyze] produces a [Report] from a sample store: one [Entity] for the
// synthetic "Total" entity (the run totals) and one per sourced identifier,
// sorted by mean cost, descending.
package stats
