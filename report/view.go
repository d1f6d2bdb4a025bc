package report

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/vimprof/pathtree"
	"github.com/ardnew/vimprof/stats"
)

// View is the selection of a report that is rendered.
type View struct {
	Samples  int
	Total    stats.Entity
	Entities []stats.Entity
}

// Empty reports whether no samples were collected.
func (v View) Empty() bool { return v.Samples == 0 }

// Title returns the heading of the text formats.
func (v View) Title() string {
	return fmt.Sprintf("Startup times (total: %.3fms)", v.Total.Mean)
}

// Tree returns the path tree of the selected entities, weighted by mean cost
// relative to the mean run total.
func (v View) Tree() pathtree.Node {
	entries := make([]pathtree.Entry, len(v.Entities))
	for i, e := range v.Entities {
		entries[i] = pathtree.Entry{Identifier: e.Identifier, Cost: e.Mean.Or(0)}
	}

	return pathtree.Build(entries, v.Total.Mean.Or(0))
}

// LogValue implements slog.LogValuer.
func (v View) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("samples", v.Samples),
		slog.Int("entities", len(v.Entities)),
	)
}
