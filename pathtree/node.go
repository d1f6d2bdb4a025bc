package pathtree

import (
	"iter"
	"log/slog"

	"github.com/ardnew/vimprof/stats"
)

// Entry is one identifier and its (mean) cost.
type Entry struct {
	Identifier string
	Cost       float64
}

// Node is one node of the cost-attribution tree.
type Node struct {
	// Key is the segment this node contributes relative to its parent's prefix.
	Key string `json:"key" yaml:"key"`
	// Prefix is the full prefix accumulated from the root.
	Prefix string `json:"prefix" yaml:"prefix"`
	// Cost sums the cost of every identifier that starts with Prefix.
	Cost float64 `json:"cost" yaml:"cost"`
	// Local is Cost relative to the parent's Cost; [stats.NotApplicable] at
	// the root.
	Local stats.Value `json:"local" yaml:"local"`
	// Global is Cost relative to the grand total.
	Global stats.Value `json:"global" yaml:"global"`
	// Terminal reports whether Prefix is itself one of the input identifiers.
	Terminal bool   `json:"terminal" yaml:"terminal"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Leaf reports whether n has no children.
func (n Node) Leaf() bool { return len(n.Children) == 0 }

// All returns a pre-order iterator over n and its descendants, paired with
// their depth below n.
func (n Node) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		n.walk(0, yield)
	}
}

func (n Node) walk(depth int, yield func(int, Node) bool) bool {
	if !yield(depth, n) {
		return false
	}

	for _, c := range n.Children {
		if !c.walk(depth+1, yield) {
			return false
		}
	}

	return true
}

// LogValue implements slog.LogValuer.
func (n Node) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("prefix", n.Prefix),
		slog.Float64("cost", n.Cost),
		slog.Int("children", len(n.Children)),
	)
}
