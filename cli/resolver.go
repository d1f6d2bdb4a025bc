package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vimprof/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the mapping named name in a YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Keys are flag names, with either hyphens or underscores:
//
//	config:
//	  log-level: debug
//	  samples: 20
//	  delay: 500ms
//	  format: graph
//
// Command-line flags override configuration values. A document that cannot
// be decoded is ignored with a warning.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("ignoring configuration",
					slog.String("reason", err.Error()),
				)
			}

			return config{}, nil
		}

		conf := make(config, len(doc[name]))
		for key, val := range doc[name] {
			conf[key] = scalar(val)
		}

		return conf, nil
	}
}

// config implements [kong.Resolver] for a decoded configuration mapping.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, key := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[key]; ok {
			return value, nil
		}
	}

	return nil, nil
}

// scalar converts a decoded YAML value into the form Kong's mappers accept.
// Kong parses numbers from strings.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Duration:
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	case nil, string, bool:
		return v
	default:
		return fmt.Sprint(v)
	}
}
