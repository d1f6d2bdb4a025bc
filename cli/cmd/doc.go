// Package cmd implements the vimprof subcommands: run, parse, and init.
//
// The run and parse commands share the report flags of [Report], which
// select, filter, and write the rendered startup-time report. Progress of a
// run is drawn on standard error when it is a terminal; reports always go to
// standard output unless --output names a file.
package cmd

import (
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vimprof/report"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by [Init].
	ConfigIdentifier = "config"
)

// Vars returns the kong variables referenced by the command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"formatDefault": report.DefaultFormat.String(),
		"formatEnum":    strings.Join(slices.Collect(report.Formats()), ","),
	}
}
