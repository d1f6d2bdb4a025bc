package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/sample"
	"github.com/ardnew/vimprof/stats"
	"github.com/ardnew/vimprof/trace"
)

// Parse analyzes startup logs written by earlier runs.
// Each file holds the log of one run.
type Parse struct {
	Report `embed:""`

	Files []string `arg:"" help:"Startup log file(s), or '-' for stdin" name:"file" type:"existingfile"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := p.collect(ctx)
	if err != nil {
		return err
	}

	rep, err := stats.Analyze(store)
	if err != nil {
		return ErrAnalyze.Wrap(err)
	}

	return p.write(ctx, rep)
}

// collect parses every distinct log into a store, in argument order.
// Logs with identical content are parsed once.
func (p *Parse) collect(ctx context.Context) (*sample.Store, error) {
	srcs, err := openSources(ctx, p.Files)
	if err != nil {
		return nil, err
	}

	defer closeSources(ctx, srcs)

	if len(srcs) == 0 {
		return nil, ErrNoLogs
	}

	var (
		cache trace.Cache
		store sample.Store
	)

	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := cache.ParseReader(src)
		if err != nil {
			return nil, ErrParseLog.With(slog.String("file", src.name)).Wrap(err)
		}

		log.TraceContext(ctx, "parsed log",
			slog.String("file", src.name),
			slog.Any("sample", s),
		)

		store.Add(s)
	}

	log.DebugContext(ctx, "parsed logs",
		slog.Int("files", len(srcs)),
		slog.Int("distinct", cache.Len()),
	)

	return &store, nil
}
