// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Every logging method takes a message and typed [slog.Attr] values:
//
//	log.Info("profiling", slog.String("command", "nvim"), slog.Int("samples", 10))
//
// A package-level logger writing to stderr backs the functions [Trace],
// [Debug], [Info], [Warn] and [Error]. It is reconfigured with functional
// options:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatJSON))
//
// Each level has a context-aware variant (e.g., [InfoContext]). The others
// use the context returned by [DefaultContextProvider].
//
// # Pretty Output
//
// With [WithPretty] enabled (the default), the text format prints unquoted
// key=value pairs and the JSON format prints one indented object per record.
// Both are colorized with lipgloss styles when the output is a terminal.
package log
