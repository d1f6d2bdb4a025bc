package cmd

import (
	"context"
	"encoding"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/pkg"
	"github.com/ardnew/vimprof/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flag |= os.O_EXCL
	}

	err = os.MkdirAll(filepath.Dir(confPath), pkg.DirMode)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	file, err := os.OpenFile(confPath, flag, 0o600)
	if os.IsExist(err) {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ErrWriteConfig.With(slog.String("file", confPath)).Wrap(cerr)
		}
	}()

	err = writeConfig(file, flagValues(ktx))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// writeConfig encodes values as the mapping read by the configuration
// resolver.
func writeConfig(w io.Writer, values yaml.MapSlice) error {
	doc := yaml.MapSlice{{Key: ConfigIdentifier, Value: values}}

	err := yaml.NewEncoder(w, yaml.Indent(defaultConfigIndent)).Encode(doc)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// flagValues returns the current value of every configurable flag of the
// application, ordered by flag name.
func flagValues(ktx *kong.Context) yaml.MapSlice {
	values := make(map[string]any)

	var visit func(*kong.Node)

	visit = func(node *kong.Node) {
		for _, flag := range node.Flags {
			if !configurable(flag) {
				continue
			}

			if val, ok := flagValue(ktx.FlagValue(flag)); ok {
				values[flag.Name] = val
			}
		}

		for _, child := range node.Children {
			visit(child)
		}
	}

	visit(ktx.Model.Node)

	names := slices.Sorted(maps.Keys(values))

	out := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		out = append(out, yaml.MapItem{Key: name, Value: values[name]})
	}

	return out
}

// configurable reports whether a flag belongs in the configuration file.
func configurable(flag *kong.Flag) bool {
	if flag.Hidden || strings.HasPrefix(flag.Name, profile.Tag) {
		return false
	}

	switch flag.Name {
	case "help", "version", "force":
		return false
	}

	return true
}

// flagValue converts a flag value to its configuration form.
// It reports false for values that have no useful representation.
func flagValue(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case time.Duration:
		return v.String(), true
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return nil, false
		}

		return string(text), true
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}

		out := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			if e, ok := flagValue(rv.Index(i).Interface()); ok {
				out = append(out, e)
			}
		}

		return out, true
	default:
		return fmt.Sprint(val), true
	}
}
