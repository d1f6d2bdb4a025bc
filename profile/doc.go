// Package profile profiles the vimprof process itself using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	vimprof --pprof-mode cpu --pprof-dir /tmp/vimprof run
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
//
// This is unrelated to the "pprof" report format, which exports the startup
// profile of the traced editor.
package profile
