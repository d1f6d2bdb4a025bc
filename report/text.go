package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/vimprof/pathtree"
	"github.com/ardnew/vimprof/stats"
)

// styles are bound to the renderer of one output.
type styles struct {
	r                   *lipgloss.Renderer
	title, file, header lipgloss.Style
	border, value, none lipgloss.Style
}

func makeStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		r:      r,
		title:  r.NewStyle().Italic(true),
		file:   r.NewStyle().Foreground(lipgloss.Color("5")),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		border: r.NewStyle().Foreground(lipgloss.Color("8")),
		value:  r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		none:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// paint formats v with format, colored by its position on g.
func (s styles) paint(g Gradient, format string, v stats.Value) string {
	text := fmt.Sprintf(format, v)

	f, ok := v.Float()
	if !ok {
		return s.none.Render(text)
	}

	return s.r.NewStyle().Foreground(g.Color(f)).Render(text)
}

func writeNoSamples(w io.Writer, s styles) error {
	_, err := fmt.Fprintln(w, s.none.Render(NoSamples))

	return err
}

func floats(entities []stats.Entity, get func(stats.Entity) stats.Value) []float64 {
	var out []float64

	for _, e := range entities {
		if f, ok := get(e).Float(); ok {
			out = append(out, f)
		}
	}

	return out
}

func renderTable(w io.Writer, v View) error {
	s := makeStyles(w)
	if v.Empty() {
		return writeNoSamples(w, s)
	}

	type column struct {
		name   string
		format string
		get    func(stats.Entity) stats.Value
	}

	columns := []column{
		{"Perc", "%6.2f%%", func(e stats.Entity) stats.Value {
			if f, ok := e.Share.Float(); ok {
				return stats.Float(f * 100)
			}

			return e.Share
		}},
		{"Min", "%7.3f", func(e stats.Entity) stats.Value { return e.Min }},
		{"Average", "%7.3f", func(e stats.Entity) stats.Value { return e.Mean }},
		{"Max", "%7.3f", func(e stats.Entity) stats.Value { return e.Max }},
		{"Stdev", "%8.2e", func(e stats.Entity) stats.Value { return e.Spread }},
	}

	grads := make([]Gradient, len(columns))
	for i, c := range columns {
		grads[i] = NewGradient(floats(v.Entities, c.get)...)
	}

	headers := []string{"File"}
	for _, c := range columns {
		headers = append(headers, c.name)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case col == 0:
				return s.file.Bold(true).Padding(0, 1)
			default:
				return s.r.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			}
		})

	for _, e := range v.Entities {
		_, name := split(e.Identifier)

		row := []string{name}
		for i, c := range columns {
			row = append(row, s.paint(grads[i], c.format, c.get(e)))
		}

		t.Row(row...)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", s.title.Render(v.Title()), t.Render())

	return err
}

func renderGraph(w io.Writer, v View) error {
	s := makeStyles(w)
	if v.Empty() {
		return writeNoSamples(w, s)
	}

	means := floats(v.Entities, func(e stats.Entity) stats.Value { return e.Mean })
	g := NewGradient(means...)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Headers("File", "Startup Time (Avg)").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case col == 0:
				return s.file.Padding(0, 1).Align(lipgloss.Right)
			default:
				return s.r.NewStyle().Padding(0, 1)
			}
		})

	for _, e := range v.Entities {
		_, name := split(e.Identifier)

		b := bar(s.r, e.Mean.Or(0), g.Max, BarWidth, g)
		t.Row(name, b+" "+s.value.Render(fmt.Sprintf("%5.2fms", e.Mean)))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", s.title.Render(v.Title()), t.Render())

	return err
}

func renderTree(w io.Writer, v View) error {
	s := makeStyles(w)
	if v.Empty() {
		return writeNoSamples(w, s)
	}

	total := v.Total.Mean.Or(0)
	cost := Gradient{Max: total, Log: true, Colors: DefaultColors}
	share := Gradient{Max: 1, Log: true, Colors: DefaultColors}

	label := func(n pathtree.Node) string {
		local := n.Local
		if local.State() == stats.StateNotApplicable {
			// The root is measured against the run total.
			local = n.Global
		}

		pct := func(x stats.Value) string {
			if f, ok := x.Float(); ok {
				return s.r.NewStyle().Foreground(share.Ratio(f)).Render(fmt.Sprintf("%.2f%%", f*100))
			}

			return s.none.Render(x.String())
		}

		return fmt.Sprintf("%s %s %s (%s)",
			s.file.Render(n.Key),
			s.r.NewStyle().Foreground(cost.Color(n.Cost)).Render(fmt.Sprintf("%5.2fms", n.Cost)),
			pct(local),
			pct(n.Global),
		)
	}

	var build func(pathtree.Node) *tree.Tree

	build = func(n pathtree.Node) *tree.Tree {
		t := tree.Root(label(n)).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(s.border)

		for _, c := range n.Children {
			if c.Leaf() {
				t.Child(label(c))
			} else {
				t.Child(build(c))
			}
		}

		return t
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", s.title.Render(v.Title()), build(v.Tree()).String())

	return err
}
