package report

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BarWidth is the number of cells of a bar in the graph format.
const BarWidth = 40

// eighths[i] fills i/8 of a cell.
var eighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// Cells returns the glyphs of a bar of width cells representing v on a scale
// of [0, scale], with trailing blanks removed. Each cell resolves to an
// eighth of its width.
func Cells(v, scale float64, width int) []rune {
	if width <= 0 || !(scale > 0) || !(v > 0) {
		return nil
	}

	fill := min(v/scale, 1) * float64(width)
	cells := make([]rune, 0, width)

	for i := range width {
		frac := fill - float64(i)

		switch {
		case frac >= 1:
			cells = append(cells, eighths[8])
		case frac > 0:
			cells = append(cells, eighths[max(1, int(math.Round(frac*8)))])
		default:
			return cells
		}
	}

	return cells
}

// bar renders the cells of v colored by the value each cell position
// represents on g.
func bar(r *lipgloss.Renderer, v, scale float64, width int, g Gradient) string {
	cells := Cells(v, scale, width)

	var (
		sb    strings.Builder
		run   []rune
		color lipgloss.Color
	)

	flush := func() {
		if len(run) > 0 {
			sb.WriteString(r.NewStyle().Foreground(color).Render(string(run)))
			run = run[:0]
		}
	}

	for i, c := range cells {
		next := g.Color(float64(i) / float64(width) * scale)
		if next != color {
			flush()

			color = next
		}

		run = append(run, c)
	}

	flush()

	return sb.String()
}
