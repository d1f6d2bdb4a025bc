package report

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// DefaultColors are the gradient stops, from lowest to highest.
var DefaultColors = []lipgloss.Color{"4", "2", "3", "1"} // blue, green, yellow, red

// Gradient maps values in [Min, Max] onto a sequence of colors.
type Gradient struct {
	Min, Max float64
	// Log spreads low values over more colors by scaling with the fourth
	// root, so that a few expensive components do not flatten the rest.
	Log    bool
	Colors []lipgloss.Color
}

// NewGradient returns a log-scaled gradient over the finite values of vals.
func NewGradient(vals ...float64) Gradient {
	g := Gradient{Min: math.Inf(1), Max: math.Inf(-1), Log: true, Colors: DefaultColors}

	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			g.Min = min(g.Min, v)
			g.Max = max(g.Max, v)
		}
	}

	if g.Min > g.Max {
		g.Min, g.Max = 0, 0
	}

	return g
}

// Color returns the color of v relative to the gradient's range.
func (g Gradient) Color(v float64) lipgloss.Color {
	if !(g.Max > g.Min) {
		return g.Ratio(0)
	}

	return g.Ratio((v - g.Min) / (g.Max - g.Min))
}

// Ratio returns the color at position p in [0, 1] along the gradient.
func (g Gradient) Ratio(p float64) lipgloss.Color {
	colors := g.Colors
	if len(colors) == 0 {
		colors = DefaultColors
	}

	switch {
	case math.IsNaN(p) || p <= 0:
		return colors[0]
	case p >= 1:
		return colors[len(colors)-1]
	case g.Log:
		p = math.Pow(p, 0.25)
	}

	return colors[min(int(float64(len(colors))*p), len(colors)-1)]
}
