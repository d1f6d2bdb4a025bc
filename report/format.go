package report

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/vimprof/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrFormat = pkg.NewError("unknown report format")
	ErrRender = pkg.NewError("failed to render report")
)

// Format identifies a report renderer.
type Format int

const (
	FormatTable Format = iota
	FormatGraph
	FormatTree
	FormatJSON
	FormatYAML
	FormatPprof
)

// DefaultFormat is the format used when none is given.
const DefaultFormat = FormatTable

var formatNames = [...]string{
	FormatTable: "table",
	FormatGraph: "graph",
	FormatTree:  "tree",
	FormatJSON:  "json",
	FormatYAML:  "yaml",
	FormatPprof: "pprof",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// Formats returns an iterator over the names of all formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

// ParseFormat returns the format with the given (case-insensitive) name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Format(f), nil
		}
	}

	return 0, ErrFormat.With(slog.String("format", s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Binary reports whether the format writes non-text output.
func (f Format) Binary() bool { return f == FormatPprof }

var renderers = map[Format]func(io.Writer, View) error{
	FormatTable: renderTable,
	FormatGraph: renderGraph,
	FormatTree:  renderTree,
	FormatJSON:  renderJSON,
	FormatYAML:  renderYAML,
	FormatPprof: renderPprof,
}

// NoSamples is printed by the text formats for a view without samples.
const NoSamples = "no samples collected"

// Render writes v to w in format f.
func Render(w io.Writer, f Format, v View) error {
	render, ok := renderers[f]
	if !ok {
		return ErrFormat.With(slog.String("format", f.String()))
	}

	if err := render(w, v); err != nil {
		return ErrRender.Wrap(err).With(slog.String("format", f.String()))
	}

	return nil
}
