package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vimprof/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable with the given identifier, or the empty
// string if ctx carries no kong.Context.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers, so that
// symlinks and relative paths to the same log are read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// source is an opened startup log.
type source struct {
	name string
	io.ReadCloser
}

// openSources opens each distinct file named in paths, in order.
//
// Files are deduplicated by device and inode. Every "-" refers to a single
// stdin source that is placed last, so that it is read after all regular
// files. Stdin named by path is treated the same way.
//
// If any file cannot be opened, the files already opened are closed and an
// error is returned.
func openSources(ctx context.Context, paths []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(ctx, srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := statKey(os.Stdin.Stat())
	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return srcs, ErrOpenLog.With(slog.String("file", path)).Wrap(err)
		}

		key, ok := statKey(os.Stat(resolved))
		if ok && stdinOK && key == stdinKey {
			hasStdin = true

			continue
		}

		if ok {
			if _, dup := seen[key]; dup {
				log.DebugContext(ctx, "skipping duplicate log",
					slog.String("file", path),
				)

				continue
			}

			seen[key] = struct{}{}
		}

		file, err := os.Open(resolved)
		if err != nil {
			return srcs, ErrOpenLog.With(slog.String("file", path)).Wrap(err)
		}

		srcs = append(srcs, source{name: path, ReadCloser: file})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, ReadCloser: io.NopCloser(os.Stdin)})
	}

	return srcs, nil
}

func closeSources(ctx context.Context, srcs []source) {
	for _, src := range srcs {
		if err := src.Close(); err != nil {
			log.WarnContext(ctx, "failed to close log",
				slog.String("file", src.name),
				slog.Any("error", err),
			)
		}
	}
}

// statKey returns the fileKey of a Stat result.
// It reports false if stat failed or the platform provides no inode.
func statKey(info os.FileInfo, err error) (key fileKey, ok bool) {
	if err != nil || info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
