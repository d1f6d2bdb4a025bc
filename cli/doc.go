// Package cli contains the command line interface for vimprof.
//
// # Usage
//
//	vimprof [flags] [run] [-- CMD...]  # profile CMD (default: nvim)
//	vimprof parse [flags] FILE...      # analyze existing --startuptime logs
//	vimprof init [--force]             # write the configuration file
//
// The run command is selected when no command is given. Arguments after "--"
// are passed to the profiled program, followed by the arguments that make it
// write a startup log and quit.
//
// # Configuration
//
// Flag defaults are read from two files in the user configuration directory
// (e.g., ~/.config/vimprof), both optional:
//
//   - config.json: a JSON object keyed by flag name
//   - config.yaml: a YAML document with a "config" mapping keyed by flag name
//
// Keys may use hyphens or underscores. Command-line flags override both.
// The init command writes the current flag values to config.yaml:
//
//	config:
//	  delay: 1s
//	  format: table
//	  log-level: warn
//	  samples: 10
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (kitchen, rfc3339, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on a terminal
//
// Logging flags are applied before any other flag is parsed.
//
// # Profiling Options
//
// Profiling vimprof itself is only available when built with the pprof tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/vimprof/pprof)
//
// # Examples
//
//	# Average of 20 runs of nvim without plugins, as a bar graph
//	vimprof -n 20 -f graph -- nvim --clean
//
//	# Slowest ten files under the lazy plugin directory
//	vimprof -c 10 --where 'dir contains "/lazy/"'
//
//	# Export a pprof profile of existing logs
//	vimprof parse -f pprof -o startup.pb.gz run-*.log
package cli
