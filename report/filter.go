package report

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/vimprof/pkg"
	"github.com/ardnew/vimprof/stats"
)

// Predefined errors (sentinel values).
var (
	ErrWhere = pkg.NewError("invalid where expression")
)

// Filter selects the entities of a report to render.
type Filter struct {
	// Count limits the number of entities after sorting. Zero or negative
	// means no limit.
	Count int
	// Match keeps entities whose identifier fuzzy-matches the pattern.
	Match string
	// Where keeps entities for which the boolean expression holds.
	// See [Env] for the names it may reference.
	Where string
}

// Env is the environment of a [Filter.Where] expression, e.g.:
//
//	mean > 0.5 && name startsWith "init"
//	share >= 0.01 || dir contains "/lazy/"
//
// Statistics without a value (see [stats.Value]) read as 0; use the has_*
// fields to tell them apart.
type Env struct {
	Identifier string  `expr:"identifier"`
	Name       string  `expr:"name"`
	Dir        string  `expr:"dir"`
	Count      int     `expr:"count"`
	Total      float64 `expr:"total"`
	Min        float64 `expr:"min"`
	Max        float64 `expr:"max"`
	Mean       float64 `expr:"mean"`
	Spread     float64 `expr:"spread"`
	Share      float64 `expr:"share"`
	HasSpread  bool    `expr:"has_spread"`
	HasShare   bool    `expr:"has_share"`
}

// MakeEnv returns the expression environment describing e.
func MakeEnv(e stats.Entity) Env {
	dir, name := split(e.Identifier)

	return Env{
		Identifier: e.Identifier,
		Name:       name,
		Dir:        dir,
		Count:      e.Count,
		Total:      e.Total,
		Min:        e.Min.Or(0),
		Max:        e.Max.Or(0),
		Mean:       e.Mean.Or(0),
		Spread:     e.Spread.Or(0),
		Share:      e.Share.Or(0),
		HasSpread:  e.Spread.Valid(),
		HasShare:   e.Share.Valid(),
	}
}

// split returns the directory (with trailing separator) and base name of a
// component identifier.
func split(id string) (dir, name string) {
	i := strings.LastIndex(id, "/")

	return id[:i+1], id[i+1:]
}

// Apply returns the view of rep selected by f.
// Entities keep their order in rep.
func (f Filter) Apply(rep stats.Report) (View, error) {
	v := View{Samples: rep.Samples, Total: rep.Total}

	entities := rep.Entities

	if f.Match != "" {
		entities = match(f.Match, entities)
	}

	if strings.TrimSpace(f.Where) != "" {
		prog, err := expr.Compile(f.Where, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return View{}, ErrWhere.Wrap(err).With(slog.String("where", f.Where))
		}

		if entities, err = where(prog, entities); err != nil {
			return View{}, ErrWhere.Wrap(err).With(slog.String("where", f.Where))
		}
	}

	if f.Count > 0 && len(entities) > f.Count {
		entities = entities[:f.Count]
	}

	v.Entities = slices.Clone(entities)

	return v, nil
}

// identifiers adapts a slice of entities to fuzzy.Source.
type identifiers []stats.Entity

func (s identifiers) String(i int) string { return s[i].Identifier }
func (s identifiers) Len() int            { return len(s) }

func match(pattern string, entities []stats.Entity) []stats.Entity {
	found := fuzzy.FindFrom(pattern, identifiers(entities))

	index := make([]int, len(found))
	for i, m := range found {
		index[i] = m.Index
	}

	// Matches are ranked by score; restore the report order.
	slices.Sort(index)

	kept := make([]stats.Entity, len(index))
	for i, j := range index {
		kept[i] = entities[j]
	}

	return kept
}

func where(prog *vm.Program, entities []stats.Entity) ([]stats.Entity, error) {
	var kept []stats.Entity

	for _, e := range entities {
		out, err := expr.Run(prog, MakeEnv(e))
		if err != nil {
			return nil, err
		}

		if ok, _ := out.(bool); ok {
			kept = append(kept, e)
		}
	}

	return kept, nil
}
