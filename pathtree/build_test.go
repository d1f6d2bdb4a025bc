package pathtree

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/vimprof/stats"
)

const tolerance = 1e-9

var cmpOpts = cmp.Options{
	cmpopts.EquateApprox(0, tolerance),
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b stats.Value) bool {
		return a.State() == b.State() && math.Abs(a.Or(0)-b.Or(0)) <= tolerance
	}),
}

// shape strips costs and shares, leaving keys and structure.
type shape struct {
	Key      string
	Children []shape
}

func shapeOf(n Node) shape {
	s := shape{Key: n.Key}
	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(c))
	}

	return s
}

func TestBuild_StartupScenario(t *testing.T) {
	got := Build([]Entry{
		{"/a/b/init.lua", 0.5},
		{"/a/c/plugin.lua", 0.3},
	}, 0.9)

	want := Node{
		Key:    "/a/",
		Prefix: "/a/",
		Cost:   0.8,
		Local:  stats.NotApplicable,
		Global: stats.Float(0.8 / 0.9),
		Children: []Node{
			{
				Key:      "b/init.lua",
				Prefix:   "/a/b/init.lua",
				Cost:     0.5,
				Local:    stats.Float(0.5 / 0.8),
				Global:   stats.Float(1.5 / 2.7),
				Terminal: true,
			},
			{
				Key:      "c/plugin.lua",
				Prefix:   "/a/c/plugin.lua",
				Cost:     0.3,
				Local:    stats.Float(0.3 / 0.8),
				Global:   stats.Float(0.9 / 2.7),
				Terminal: true,
			},
		},
	}

	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Shapes(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want shape
	}{
		{
			name: "empty",
			want: shape{},
		},
		{
			name: "single identifier is the root",
			ids:  []string{"/a/b/init.lua"},
			want: shape{Key: "/a/b/init.lua"},
		},
		{
			name: "flat directory",
			ids:  []string{"/p/x.lua", "/p/y.lua", "/p/z.lua"},
			want: shape{Key: "/p/", Children: []shape{
				{Key: "x.lua"}, {Key: "y.lua"}, {Key: "z.lua"},
			}},
		},
		{
			name: "nested directories",
			ids: []string{
				"/n/pack/a/start/x.vim",
				"/n/pack/a/start/y.vim",
				"/n/lua/init.lua",
				"/n/pack/b/opt/z.vim",
			},
			want: shape{Key: "/n/", Children: []shape{
				{Key: "pack/", Children: []shape{
					{Key: "a/start/", Children: []shape{
						{Key: "x.vim"}, {Key: "y.vim"},
					}},
					{Key: "b/opt/z.vim"},
				}},
				{Key: "lua/init.lua"},
			}},
		},
		{
			name: "prefix cut inside a segment is aligned",
			ids:  []string{"/a/b/x1.lua", "/a/b/x2.lua", "/a/c.lua"},
			want: shape{Key: "/a/", Children: []shape{
				{Key: "b/", Children: []shape{
					{Key: "x1.lua"}, {Key: "x2.lua"},
				}},
				{Key: "c.lua"},
			}},
		},
		{
			name: "partially overlapping segments",
			ids:  []string{"/a/b/d", "/a/bc/e", "/a/bc/f", "/a/z"},
			want: shape{Key: "/a/", Children: []shape{
				{Key: "b/", Children: []shape{{Key: "d"}}},
				{Key: "bc/", Children: []shape{{Key: "e"}, {Key: "f"}}},
				{Key: "z"},
			}},
		},
		{
			name: "identifier that is also a directory prefix",
			ids:  []string{"/a/b", "/a/b/c", "/a/x"},
			want: shape{Key: "/a/", Children: []shape{
				{Key: "b"},
				{Key: "b/", Children: []shape{{Key: "c"}}},
				{Key: "x"},
			}},
		},
		{
			name: "known prefix after a longer sibling",
			ids:  []string{"/x/a/bc", "/x/a/b", "/x/y"},
			want: shape{Key: "/x/", Children: []shape{
				{Key: "a/b"},
				{Key: "a/", Children: []shape{{Key: "bc"}, {Key: "b"}}},
				{Key: "y"},
			}},
		},
		{
			name: "known prefix before a longer sibling",
			ids:  []string{"/x/a/b", "/x/a/bc", "/x/y"},
			want: shape{Key: "/x/", Children: []shape{
				{Key: "a/b"},
				{Key: "a/", Children: []shape{{Key: "b"}, {Key: "bc"}}},
				{Key: "y"},
			}},
		},
		{
			name: "directory identifier after its contents",
			ids:  []string{"/a/b/c", "/a/b", "/a/x"},
			want: shape{Key: "/a/", Children: []shape{
				{Key: "b"},
				{Key: "b/", Children: []shape{{Key: "c"}}},
				{Key: "x"},
			}},
		},
		{
			name: "alignment that cannot extend the key",
			ids:  []string{"/a/a/x", "/a/ab/y"},
			want: shape{Key: "/a/a", Children: []shape{
				{Key: "/x"},
				{Key: "b/y"},
			}},
		},
		{
			name: "no shared prefix",
			ids:  []string{"a/x", "b/y"},
			want: shape{Key: "", Children: []shape{
				{Key: "a/x"}, {Key: "b/y"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]Entry, len(tt.ids))
			for i, id := range tt.ids {
				entries[i] = Entry{Identifier: id, Cost: 1}
			}

			got := shapeOf(Build(entries, float64(len(entries))))
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Build() shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_EveryIdentifierIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"known prefix first", []string{"/x/a/b", "/x/a/bc", "/x/y"}},
		{"known prefix last", []string{"/x/a/bc", "/x/a/b", "/x/y"}},
		{"partial overlap", []string{"/a/b/d", "/a/bc/e", "/a/bc/f", "/a/z"}},
		{"partial overlap reversed", []string{"/a/z", "/a/bc/f", "/a/bc/e", "/a/b/d"}},
		{"directory identifier first", []string{"/a/b", "/a/b/c", "/a/x"}},
		{"directory identifier last", []string{"/a/b/c", "/a/x", "/a/b"}},
		{"root identifier", []string{"/x/a/b", "/x/a"}},
		{"unsplittable group", []string{"/a/ab/y", "/a/a/x"}},
		{"chained known prefixes", []string{"/p/q/rst", "/p/q/rs", "/p/q/r", "/p/z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]Entry, len(tt.ids))
			for i, id := range tt.ids {
				entries[i] = Entry{Identifier: id, Cost: float64(len(tt.ids) - i)}
			}

			root := Build(entries, 10)

			terminal := make(map[string]bool)

			for _, n := range root.All() {
				if n.Terminal {
					terminal[n.Prefix] = true
				}

				if n.Leaf() && !n.Terminal {
					t.Errorf("leaf %q is not an identifier", n.Prefix)
				}
			}

			for _, e := range entries {
				if !terminal[e.Identifier] {
					t.Errorf("identifier %q has no terminal node", e.Identifier)
				}
			}
		})
	}
}

func TestBuild_Deduplicates(t *testing.T) {
	got := Build([]Entry{
		{"/a/x", 1},
		{"/a/y", 2},
		{"/a/x", 100},
	}, 3)

	if len(got.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(got.Children))
	}

	if got.Cost != 3 || got.Children[0].Cost != 1 {
		t.Errorf("costs = %v/%v, want 3/1", got.Cost, got.Children[0].Cost)
	}
}

func TestBuild_ZeroGrandTotal(t *testing.T) {
	got := Build([]Entry{{"/a/x", 0}, {"/a/y", 0}}, 0)

	for _, n := range got.All() {
		if n.Global.State() != stats.StateNoData {
			t.Errorf("%q: Global state = %v, want %v", n.Prefix, n.Global.State(), stats.StateNoData)
		}
	}

	if got.Local.State() != stats.StateNotApplicable {
		t.Errorf("root Local state = %v, want %v", got.Local.State(), stats.StateNotApplicable)
	}
}

func TestBuild_ChildrenPartitionParentCost(t *testing.T) {
	entries := []Entry{
		{"/n/pack/a/start/x.vim", 1.25},
		{"/n/pack/a/start/y.vim", 0.5},
		{"/n/lua/init.lua", 3},
		{"/n/pack/b/opt/z.vim", 0.125},
		{"/n/lua/core/keys.lua", 0.75},
		{"/n/lua/core/opts.lua", 0.0625},
	}

	var grand float64
	for _, e := range entries {
		grand += e.Cost
	}

	root := Build(entries, grand)

	leaves := 0

	for _, n := range root.All() {
		if n.Leaf() {
			leaves++

			continue
		}

		var sum float64
		for _, c := range n.Children {
			sum += c.Cost
		}

		if math.Abs(sum-n.Cost) > tolerance {
			t.Errorf("%q: children sum to %v, want %v", n.Prefix, sum, n.Cost)
		}
	}

	if leaves != len(entries) {
		t.Errorf("leaves = %d, want %d", leaves, len(entries))
	}

	if g, _ := root.Global.Float(); math.Abs(g-1) > tolerance {
		t.Errorf("root Global = %v, want 1", g)
	}
}

func TestNode_AllStopsEarly(t *testing.T) {
	root := Build([]Entry{{"/a/x", 1}, {"/a/y", 1}, {"/a/z", 1}}, 3)

	visited := 0

	for range root.All() {
		visited++
		if visited == 2 {
			break
		}
	}

	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
}

func BenchmarkBuild(b *testing.B) {
	var entries []Entry

	for i := range 200 {
		entries = append(entries, Entry{
			Identifier: fmt.Sprintf("/home/u/.local/share/nvim/lazy/p%02d/lua/m%d.lua", i%40, i),
			Cost:       float64(i%7) * 0.1,
		})
	}

	for b.Loop() {
		Build(entries, 100)
	}
}
