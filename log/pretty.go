package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers.
// Styles render plain text when the output is not a terminal.
type palette struct {
	key, str, num, dur, null lipgloss.Style
	yes, no                  lipgloss.Style
	trace, debug, info       lipgloss.Style
	warn, err                lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		null:  fg("8").Italic(true),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("4").Faint(true),
		debug: fg("4"),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	s := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.err.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

func (p palette) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.dur.Render(v.Time().Format(time.RFC3339))
	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if l, ok := v.Any().(slog.Level); ok {
			return p.level(l)
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	}
}

// shared is the state common to a handler and its derivatives.
type shared struct {
	mu         *sync.Mutex
	w          io.Writer
	opts       slog.HandlerOptions
	formatTime FormatTime
	palette
}

func makeShared(w io.Writer, ft FormatTime, opts *slog.HandlerOptions) shared {
	return shared{
		mu:         &sync.Mutex{},
		w:          w,
		opts:       *opts,
		formatTime: ft,
		palette:    makePalette(w),
	}
}

func (s shared) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if s.opts.Level != nil {
		threshold = s.opts.Level.Level()
	}

	return level >= threshold
}

func (s shared) source(r slog.Record) string {
	if !s.opts.AddSource {
		return ""
	}

	if src := r.Source(); src != nil && src.File != "" {
		return src.File + ":" + strconv.Itoa(src.Line)
	}

	return ""
}

func (s shared) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(buf.Bytes())

	return err
}

// field is one attribute flattened under its group path.
type field struct {
	key   string
	value slog.Value
}

func flatten(prefix string, a slog.Attr, out []field) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return out
	}

	if a.Value.Kind() != slog.KindGroup {
		return append(out, field{prefix + a.Key, a.Value})
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		out = flatten(prefix, g, out)
	}

	return out
}

// prettyTextHandler writes one colorized line of unquoted key=value pairs
// per record.
type prettyTextHandler struct {
	shared

	prefix string
	fields []field
}

func newPrettyTextHandler(
	w io.Writer,
	ft FormatTime,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{shared: makeShared(w, ft, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	sep := func() {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
	}

	if !r.Time.IsZero() {
		if t := h.formatTime(r.Time); t != "" {
			buf.WriteString(h.key.Render(t))
		}
	}

	sep()
	buf.WriteString(h.level(r.Level))

	if src := h.source(r); src != "" {
		sep()
		buf.WriteString(h.key.Render(src))
	}

	sep()
	buf.WriteString(r.Message)

	fields := h.fields[:len(h.fields):len(h.fields)]
	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(h.prefix, a, fields)

		return true
	})

	for _, f := range fields {
		sep()
		buf.WriteString(h.key.Render(f.key + "="))
		buf.WriteString(h.value(f.value))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	d := *h
	d.fields = h.fields[:len(h.fields):len(h.fields)]

	for _, a := range attrs {
		d.fields = flatten(h.prefix, a, d.fields)
	}

	return &d
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	d := *h
	d.prefix += name + "."

	return &d
}

// prettyJSONHandler writes each record as an indented, colorized object with
// unquoted values.
type prettyJSONHandler struct {
	prettyTextHandler
}

func newPrettyJSONHandler(
	w io.Writer,
	ft FormatTime,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{*newPrettyTextHandler(w, ft, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	first := true
	entry := func(key, value string) {
		if !first {
			buf.WriteString(",\n")
		}

		first = false

		buf.WriteString("  ")
		buf.WriteString(h.key.Render(key))
		buf.WriteString(": ")
		buf.WriteString(value)
	}

	buf.WriteString("{\n")

	if !r.Time.IsZero() {
		if t := h.formatTime(r.Time); t != "" {
			entry(slog.TimeKey, h.str.Render(t))
		}
	}

	entry(slog.LevelKey, h.level(r.Level))

	if src := h.source(r); src != "" {
		entry(slog.SourceKey, h.str.Render(src))
	}

	entry(slog.MessageKey, h.str.Render(r.Message))

	fields := h.fields[:len(h.fields):len(h.fields)]
	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(h.prefix, a, fields)

		return true
	})

	for _, f := range fields {
		entry(f.key, h.value(f.value))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	t, _ := h.prettyTextHandler.WithAttrs(attrs).(*prettyTextHandler)

	return &prettyJSONHandler{*t}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	t, _ := h.prettyTextHandler.WithGroup(name).(*prettyTextHandler)

	return &prettyJSONHandler{*t}
}
