package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/report"
	"github.com/ardnew/vimprof/stats"
)

// Report holds the flags that select, filter, and write a report.
type Report struct {
	Format report.Format `default:"${formatDefault}" enum:"${formatEnum}" help:"Report format (${enum})." short:"f"`
	Count  int           `default:"0" help:"Show at most N components (0 shows all)." placeholder:"N" short:"c"`
	Match  string        `help:"Show components fuzzy-matching PATTERN." placeholder:"PATTERN" short:"m"`
	Where  string        `help:"Show components for which EXPR holds." placeholder:"EXPR" short:"w"`
	Output string        `help:"Write the report to FILE." placeholder:"FILE" short:"o" type:"path"`
}

func (r Report) filter() report.Filter {
	return report.Filter{Count: r.Count, Match: r.Match, Where: r.Where}
}

// write filters rep and renders it to the output selected by r.
func (r Report) write(ctx context.Context, rep stats.Report) (err error) {
	view, err := r.filter().Apply(rep)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "rendering report",
		slog.String("format", r.Format.String()),
		slog.Any("view", view),
	)

	if r.Output == "" || r.Output == stdinSource {
		if r.Format.Binary() && isTerminal(os.Stdout) {
			return ErrBinaryTTY.With(slog.String("format", r.Format.String()))
		}

		return r.render(os.Stdout, view)
	}

	file, err := os.Create(r.Output)
	if err != nil {
		return ErrWriteReport.With(slog.String("file", r.Output)).Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ErrWriteReport.With(slog.String("file", r.Output)).Wrap(cerr)
		}
	}()

	return r.render(file, view)
}

func (r Report) render(w io.Writer, view report.View) error {
	return report.Render(w, r.Format, view)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
