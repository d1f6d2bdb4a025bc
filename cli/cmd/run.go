package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/runner"
	"github.com/ardnew/vimprof/stats"
)

// Run profiles the startup of a command and reports the result.
type Run struct {
	Report `embed:""`

	Samples int           `default:"10" help:"Number of startup runs."                        placeholder:"N" short:"n"`
	Retries int           `default:"2"  help:"Repeat a failed run up to N times."             placeholder:"N" short:"r"`
	Delay   time.Duration `default:"1s" help:"Wait before repeating a failed run."`
	Jobs    int           `default:"1"  help:"Maximum number of concurrent runs."             placeholder:"N" short:"j"`
	Timeout time.Duration `default:"0s" help:"Abort a run attempt after this long (0: never)."`

	Command []string `arg:"" help:"Command to profile (default: nvim). Separate from flags with '--'." name:"cmd" optional:""`
}

// config returns the runner configuration selected by the flags.
func (r *Run) config(ctx context.Context) runner.Config {
	command := r.Command
	if len(command) == 0 {
		command = runner.DefaultCommand
	}

	return runner.Config{
		Command: slices.Clone(command),
		Samples: r.Samples,
		Retries: r.Retries,
		Delay:   r.Delay,
		Jobs:    r.Jobs,
		Timeout: r.Timeout,
		Dir:     kongVar(ctx, CacheIdentifier),
	}
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Reject a bad filter before spending time on runs.
	if _, err := r.filter().Apply(stats.Report{}); err != nil {
		return err
	}

	run := runner.New(r.config(ctx))

	update, stop := startProgress(ctx, os.Stderr, run.Samples)
	run.OnProgress = update

	store, err := run.Run(ctx)

	stop()

	if err != nil {
		return err
	}

	if store.Len() < run.Samples {
		log.WarnContext(ctx, "some runs produced no startup log",
			slog.Int("samples", store.Len()),
			slog.Int("skipped", run.Samples-store.Len()),
		)
	}

	rep, err := stats.Analyze(store)
	if err != nil {
		return ErrAnalyze.Wrap(err)
	}

	return r.write(ctx, rep)
}
