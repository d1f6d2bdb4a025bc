package pathtree

import (
	"strings"

	"github.com/ardnew/vimprof/stats"
)

const separator = "/"

// Build returns the cost-attribution tree of entries.
//
// Entries are deduplicated by identifier, keeping the first occurrence.
// Children are ordered by first discovery while scanning entries in the given
// order. Shares against a zero grandTotal are [stats.NoData].
func Build(entries []Entry, grandTotal float64) Node {
	b := newBuilder(entries, grandTotal)

	root := commonPrefix(b.ids)

	n := Node{
		Key:      root,
		Prefix:   root,
		Cost:     b.cost(root),
		Local:    stats.NotApplicable,
		Terminal: b.known[root],
	}
	n.Global = stats.Ratio(n.Cost, grandTotal)

	if len(b.ids) > 0 {
		n.Children = b.partition(root, n.Cost)
	}

	return n
}

type builder struct {
	ids   []string
	costs map[string]float64
	known map[string]bool
	grand float64
}

func newBuilder(entries []Entry, grandTotal float64) *builder {
	b := &builder{
		costs: make(map[string]float64, len(entries)),
		known: make(map[string]bool, len(entries)),
		grand: grandTotal,
	}

	for _, e := range entries {
		if b.known[e.Identifier] {
			continue
		}

		b.known[e.Identifier] = true
		b.costs[e.Identifier] = e.Cost
		b.ids = append(b.ids, e.Identifier)
	}

	return b
}

// cost sums the cost of every identifier starting with prefix.
func (b *builder) cost(prefix string) float64 {
	var sum float64

	for _, id := range b.ids {
		if strings.HasPrefix(id, prefix) {
			sum += b.costs[id]
		}
	}

	return sum
}

// group returns the identifiers starting with prefix, in input order.
func (b *builder) group(prefix string) []string {
	var ids []string

	for _, id := range b.ids {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}

	return ids
}

func (b *builder) node(key, prefix string, parentCost float64) Node {
	cost := b.cost(prefix)

	return Node{
		Key:      prefix[len(key):],
		Prefix:   prefix,
		Cost:     cost,
		Local:    stats.Ratio(cost, parentCost),
		Global:   stats.Ratio(cost, b.grand),
		Terminal: b.known[prefix],
	}
}

// partition returns the children of the node at key.
//
// The visited set is scoped to one call; it keeps an identifier or group
// prefix from being emitted twice among the same siblings. Every identifier
// below key ends up at a terminal node, whatever the input order.
func (b *builder) partition(key string, keyCost float64) []Node {
	var children []Node

	visited := make(map[string]bool)

	leaf := func(id string) {
		if !visited[id] {
			visited[id] = true
			children = append(children, b.node(key, id, keyCost))
		}
	}

	for _, id := range b.ids {
		if !strings.HasPrefix(id, key) || id == key {
			continue
		}

		segs := strings.Split(id[len(key):], separator)
		if len(segs) == 1 {
			leaf(id)

			continue
		}

		head := key + segs[0]
		members := b.group(head)
		pref := commonPrefix(members)

		if b.known[pref] && pref != key {
			leaf(pref)

			if pref == id {
				continue
			}

			// The other members of the group still need a node of their own.
		}

		pref = align(pref, segs[0])

		if visited[pref] {
			continue
		}

		if len(pref) <= len(key) || !strings.HasPrefix(pref, key) {
			// The group cannot be split any further below key.
			for _, m := range members {
				if m != key {
					leaf(m)
				}
			}

			continue
		}

		visited[pref] = true

		n := b.node(key, pref, keyCost)
		n.Children = b.partition(pref, n.Cost)
		children = append(children, n)
	}

	return children
}

// align truncates a prefix ending inside a path segment back to its last
// separator, then appends seg and a separator unless seg already occurs in
// the truncated prefix.
func align(prefix, seg string) string {
	if strings.HasSuffix(prefix, separator) {
		return prefix
	}

	i := strings.LastIndex(prefix, separator)
	if i < 0 {
		prefix = separator
	} else {
		prefix = prefix[:i+1]
	}

	if !strings.Contains(prefix, seg) {
		prefix += seg + separator
	}

	return prefix
}

// commonPrefix returns the longest common prefix of ids, compared byte by
// byte.
func commonPrefix(ids []string) string {
	if len(ids) == 0 {
		return ""
	}

	prefix := ids[0]

	for _, id := range ids[1:] {
		n := min(len(prefix), len(id))

		i := 0
		for i < n && prefix[i] == id[i] {
			i++
		}

		prefix = prefix[:i]
		if prefix == "" {
			break
		}
	}

	return prefix
}
