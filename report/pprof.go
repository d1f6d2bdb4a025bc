package report

import (
	"io"
	"log/slog"
	"math"

	"github.com/google/pprof/profile"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/pkg"
)

// Unattributed names the frame holding run time not attributed to any
// selected component.
const Unattributed = "(unattributed)"

// Profile returns the startup profile of v.
//
// Every distinct path tree prefix is a function. Each selected component
// contributes one sample, its own mean cost in nanoseconds, on the stack from
// its first terminal node up to the root. Mean run time outside the tree is
// recorded under [Unattributed].
func Profile(v View) *profile.Profile {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "startup", Unit: "nanoseconds"}},
		PeriodType: &profile.ValueType{Type: "startup", Unit: "nanoseconds"},
		Period:     1,
		Comments:   []string{pkg.Name + " " + pkg.Version(), v.Title()},
	}

	if v.Empty() {
		return p
	}

	frames := make(map[string]*profile.Location)

	frame := func(name, file string) *profile.Location {
		if loc, ok := frames[name]; ok {
			return loc
		}

		fn := &profile.Function{
			ID:         uint64(len(p.Function) + 1),
			Name:       name,
			SystemName: name,
			Filename:   file,
		}
		loc := &profile.Location{
			ID:   uint64(len(p.Location) + 1),
			Line: []profile.Line{{Function: fn}},
		}

		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		frames[name] = loc

		return loc
	}

	add := func(ms float64, stack []*profile.Location) {
		ns := int64(math.Round(ms * 1e6))
		if ns <= 0 {
			return
		}

		// Leaf first.
		locs := make([]*profile.Location, len(stack))
		for i, l := range stack {
			locs[len(stack)-1-i] = l
		}

		p.Sample = append(p.Sample, &profile.Sample{
			Location: locs,
			Value:    []int64{ns},
		})
	}

	own := make(map[string]float64, len(v.Entities))
	for _, e := range v.Entities {
		if _, ok := own[e.Identifier]; !ok {
			own[e.Identifier] = e.Mean.Or(0)
		}
	}

	root := v.Tree()

	var stack []*profile.Location

	for depth, n := range root.All() {
		name := n.Prefix
		if name == "" {
			name = "/"
		}

		stack = append(stack[:depth], frame(name, n.Prefix))

		cost, ok := own[n.Prefix]
		if !n.Terminal || !ok {
			continue
		}

		// An identifier may be reached from overlapping siblings.
		delete(own, n.Prefix)
		add(cost, stack)
	}

	for id := range own {
		log.Trace("component missing from path tree", slog.String("identifier", id))
	}

	switch rest := v.Total.Mean.Or(0) - root.Cost; {
	case rest > 0:
		add(rest, []*profile.Location{frame(Unattributed, "")})
	case rest < 0:
		log.Trace("components exceed run total",
			slog.Float64("total", v.Total.Mean.Or(0)),
			slog.Float64("components", root.Cost),
		)
	}

	p.DurationNanos = int64(math.Round(v.Total.Mean.Or(0) * 1e6))

	return p
}

func renderPprof(w io.Writer, v View) error {
	p := Profile(v)
	if err := p.CheckValid(); err != nil {
		return err
	}

	return p.Write(w)
}
