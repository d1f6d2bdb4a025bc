package cmd

import "github.com/ardnew/vimprof/pkg"

// Predefined errors (sentinel values).
var (
	ErrOpenLog     = pkg.NewError("open startup log")
	ErrParseLog    = pkg.NewError("parse startup log")
	ErrNoLogs      = pkg.NewError("no startup logs to parse")
	ErrAnalyze     = pkg.NewError("analyze samples")
	ErrWriteReport = pkg.NewError("write report")
	ErrBinaryTTY   = pkg.NewError("refusing to write binary report to a terminal (use --output)")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
