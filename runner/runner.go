package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/pkg"
	"github.com/ardnew/vimprof/sample"
	"github.com/ardnew/vimprof/trace"
)

// Predefined errors (sentinel values).
var (
	ErrConfig = pkg.NewError("invalid runner configuration")
	ErrExit   = pkg.NewError("command exited with non-zero status")
	ErrStart  = pkg.NewError("failed to start command")
	ErrRun    = pkg.NewError("run failed")
	ErrLog    = pkg.NewError("failed to read startup log")
)

// DefaultCommand is the program profiled when none is given.
var DefaultCommand = []string{"nvim"}

// Config describes a profiling session.
type Config struct {
	// Command is the program and its arguments. The startup log arguments
	// are appended.
	Command []string
	// Samples is the number of runs.
	Samples int
	// Retries is the number of times a failed run is repeated.
	Retries int
	// Delay is the wait before repeating a failed run.
	Delay time.Duration
	// Jobs is the maximum number of concurrent runs.
	Jobs int
	// Timeout bounds each attempt. Zero means no limit.
	Timeout time.Duration
	// Dir is the parent of the session's temporary log directory.
	// Empty selects the system temporary directory.
	Dir string
}

// Progress reports the completion of one run.
type Progress struct {
	Run       int // index of the completed run
	Completed int // number of runs completed so far
	Total     int
	Skipped   bool // the run wrote no log
}

// Runner collects samples as described by its Config.
type Runner struct {
	Config

	// OnProgress, if set, is called after each completed run. It may be
	// called concurrently.
	OnProgress func(Progress)
}

// New returns a Runner for cfg.
func New(cfg Config) *Runner { return &Runner{Config: cfg} }

func (r *Runner) validate() error {
	switch {
	case len(r.Command) == 0 || r.Command[0] == "":
		return ErrConfig.With(slog.String("reason", "empty command"))
	case r.Samples <= 0:
		return ErrConfig.With(slog.Int("samples", r.Samples))
	case r.Retries < 0:
		return ErrConfig.With(slog.Int("retries", r.Retries))
	case r.Delay < 0 || r.Timeout < 0:
		return ErrConfig.With(
			slog.Duration("delay", r.Delay),
			slog.Duration("timeout", r.Timeout),
		)
	}

	return nil
}

type result struct {
	sample trace.Sample
	ok     bool
}

// Run executes the session and returns the collected samples.
//
// The first run that fails after all retries cancels the others, and its
// error is returned.
func (r *Runner) Run(ctx context.Context) (*sample.Store, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(r.Dir, pkg.Name+"-*")
	if err != nil {
		return nil, ErrConfig.Wrap(err).With(slog.String("dir", r.Dir))
	}

	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.WarnContext(ctx, "failed to remove log directory",
				slog.String("dir", dir),
				slog.Any("error", err),
			)
		}
	}()

	log.DebugContext(ctx, "profiling",
		slog.String("command", strings.Join(r.Command, " ")),
		slog.Int("samples", r.Samples),
		slog.Int("jobs", max(1, r.Jobs)),
		slog.String("dir", dir),
	)

	results := make([]result, r.Samples)

	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Jobs))

	for i := range r.Samples {
		g.Go(func() error {
			path := filepath.Join(dir, "run-"+strconv.Itoa(i)+".log")

			s, ok, err := r.collect(gctx, i, path)
			if err != nil {
				return err
			}

			results[i] = result{s, ok}

			if r.OnProgress != nil {
				r.OnProgress(Progress{
					Run:       i,
					Completed: int(completed.Add(1)),
					Total:     r.Samples,
					Skipped:   !ok,
				})
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var st sample.Store

	for _, res := range results {
		if res.ok {
			st.Add(res.sample)
		}
	}

	log.DebugContext(ctx, "profiling complete",
		slog.Int("samples", st.Len()),
		slog.Int("skipped", r.Samples-st.Len()),
	)

	return &st, nil
}

// collect performs one run, retrying failed attempts.
// A run whose log was not written reports ok == false and no error.
func (r *Runner) collect(ctx context.Context, run int, path string) (trace.Sample, bool, error) {
	var (
		attempts int
		errs     []error
	)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.Delay), uint64(r.Retries)),
		ctx,
	)

	s, err := backoff.RetryNotifyWithData(
		func() (result, error) {
			attempts++

			return r.attempt(ctx, run, path)
		},
		policy,
		func(err error, wait time.Duration) {
			errs = append(errs, err)

			log.WarnContext(ctx, "retrying run",
				slog.Int("run", run),
				slog.Int("attempt", attempts),
				slog.Duration("wait", wait),
				slog.Any("error", err),
			)
		},
	)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return trace.Sample{}, false, err
		}

		return trace.Sample{}, false, ErrRun.Wrap(pkg.MakeChain(append(errs, err)...)).With(
			slog.Int("run", run),
			slog.Int("attempts", attempts),
		)
	}

	return s.sample, s.ok, nil
}

// Args returns the arguments appended to the command to write its startup
// log to path and quit.
func Args(path string) []string {
	return []string{"--startuptime", path, "-c", "qa!"}
}

// attempt executes the command once and parses its log.
func (r *Runner) attempt(ctx context.Context, run int, path string) (result, error) {
	// The editor appends to an existing log.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return result{}, backoff.Permanent(ErrLog.Wrap(err))
	}

	runCtx := ctx

	if r.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(runCtx, r.Command[0], slices.Concat(r.Command[1:], Args(path))...)
	cmd.Stderr = &stderr

	start := time.Now()

	if err := cmd.Run(); err != nil {
		var exit *exec.ExitError

		switch {
		case ctx.Err() != nil:
			return result{}, backoff.Permanent(ctx.Err())
		case runCtx.Err() != nil:
			// Timed out: retryable.
			return result{}, ErrExit.Wrap(runCtx.Err()).With(slog.Duration("timeout", r.Timeout))
		case errors.As(err, &exit):
			return result{}, ErrExit.Wrap(err).With(
				slog.Int("code", exit.ExitCode()),
				slog.String("stderr", strings.TrimSpace(stderr.String())),
			)
		default:
			return result{}, backoff.Permanent(ErrStart.Wrap(err).With(
				slog.String("command", r.Command[0]),
			))
		}
	}

	log.TraceContext(ctx, "run complete",
		slog.Int("run", run),
		slog.Duration("elapsed", time.Since(start)),
	)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WarnContext(ctx, "startup log was not created",
			slog.Int("run", run),
			slog.String("path", path),
		)

		return result{}, nil
	}

	if err != nil {
		return result{}, backoff.Permanent(ErrLog.Wrap(err).With(slog.String("path", path)))
	}

	defer f.Close()

	s, err := trace.Parse(f)
	if err != nil {
		return result{}, backoff.Permanent(ErrLog.Wrap(err).With(slog.String("path", path)))
	}

	return result{sample: s, ok: true}, nil
}
