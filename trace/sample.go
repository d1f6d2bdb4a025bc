package trace

import (
	"log/slog"
	"slices"
)

// Component is the ordered list of elapsed times (milliseconds) attributed to
// one identifier within a single run.
type Component struct {
	Identifier string
	Durations  []float64
}

// Sum returns the total time attributed to the component within its run.
func (c Component) Sum() float64 {
	var sum float64
	for _, d := range c.Durations {
		sum += d
	}

	return sum
}

// Sample is the parsed result of one run's trace log.
//
// Components are kept in the order their identifier first appeared in the
// log. A Sample must not be modified once it has been returned by the parser.
type Sample struct {
	// Total is the high-water mark of all recognized clock values.
	Total      float64
	Components []Component
}

// Lookup returns the component with the given identifier.
func (s Sample) Lookup(identifier string) (Component, bool) {
	i := slices.IndexFunc(s.Components, func(c Component) bool {
		return c.Identifier == identifier
	})
	if i < 0 {
		return Component{}, false
	}

	return s.Components[i], true
}

// Identifiers returns the component identifiers in first-appearance order.
func (s Sample) Identifiers() []string {
	ids := make([]string, len(s.Components))
	for i, c := range s.Components {
		ids[i] = c.Identifier
	}

	return ids
}

// Empty reports whether the sample has no recognized data.
func (s Sample) Empty() bool { return s.Total == 0 && len(s.Components) == 0 }

// Clone returns a deep copy of s.
func (s Sample) Clone() Sample {
	c := Sample{Total: s.Total}
	if s.Components != nil {
		c.Components = make([]Component, len(s.Components))
		for i, comp := range s.Components {
			c.Components[i] = Component{
				Identifier: comp.Identifier,
				Durations:  slices.Clone(comp.Durations),
			}
		}
	}

	return c
}

// Validate reports an error if any duration exceeds the run total.
func (s Sample) Validate() error {
	for _, c := range s.Components {
		for _, d := range c.Durations {
			if d > s.Total {
				return ErrInconsistent.With(
					slog.String("identifier", c.Identifier),
					slog.Float64("duration", d),
					slog.Float64("total", s.Total),
				)
			}
		}
	}

	return nil
}

// LogValue implements slog.LogValuer.
func (s Sample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("total", s.Total),
		slog.Int("components", len(s.Components)),
	)
}
