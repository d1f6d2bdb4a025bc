// Package pathtree groups component identifiers into a cost-attribution tree
// by shared prefix.
//
// The root holds the longest common prefix of every identifier, compared
// character by character. Below it, identifiers are partitioned by their
// first path segment. A group's key is the longest common prefix of its
// members, corrected back to a "/" boundary when it ends inside a segment.
// The grouping is string-based and not path-aware, so identifiers that only
// partially overlap (e.g., "/a/bc" and "/a/b/d") may group in ways a
// filesystem would not.
//
// Every node's cost is the sum of the costs of all identifiers starting with
// its prefix. Shares relative to the parent and to the grand total are
// [stats.Value], so a zero reference yields [stats.NoData] instead of NaN.
//
// [Build] is pure: it returns a tree value and has no other effects.
package pathtree
