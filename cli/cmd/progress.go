package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vimprof/log"
	"github.com/ardnew/vimprof/runner"
)

const progressWidth = 40

var skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

// progressMsg is sent to the model for each completed run.
type progressMsg runner.Progress

// progressModel is the Bubble Tea model drawing the run progress bar.
type progressModel struct {
	bar       progress.Model
	total     int
	completed int
	skipped   int
}

func newProgressModel(total int) progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		total: total,
	}
}

// Init implements tea.Model.
func (m progressModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.completed = max(m.completed, msg.Completed)
		m.total = msg.Total

		if msg.Skipped {
			m.skipped++
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m progressModel) View() string {
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.completed) / float64(m.total)
	}

	view := fmt.Sprintf("%s %d/%d", m.bar.ViewAs(ratio), m.completed, m.total)
	if m.skipped > 0 {
		view += skippedStyle.Render(fmt.Sprintf(" (%d skipped)", m.skipped))
	}

	return view + "\n"
}

// progressDisplay reports run progress on standard error.
type progressDisplay struct {
	program *tea.Program
	done    chan struct{}
}

// startProgress starts drawing a progress bar for total runs if w is a
// terminal. Otherwise, progress is logged instead.
//
// The returned stop function must be called once collection has finished.
func startProgress(
	ctx context.Context,
	w io.Writer,
	total int,
) (update func(runner.Progress), stop func()) {
	logProgress := func(p runner.Progress) {
		log.DebugContext(ctx, "run complete",
			slog.Int("run", p.Run),
			slog.Int("completed", p.Completed),
			slog.Int("total", p.Total),
			slog.Bool("skipped", p.Skipped),
		)
	}

	f, ok := w.(*os.File)
	if !ok || !isTerminal(f) {
		return logProgress, func() {}
	}

	d := progressDisplay{
		program: tea.NewProgram(
			newProgressModel(total),
			tea.WithContext(ctx),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}

	go func() {
		defer close(d.done)

		if _, err := d.program.Run(); err != nil {
			log.DebugContext(ctx, "progress display stopped",
				slog.Any("error", err),
			)
		}
	}()

	return func(p runner.Progress) {
			d.program.Send(progressMsg(p))
		}, func() {
			d.program.Quit()
			<-d.done
		}
}
