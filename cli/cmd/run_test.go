package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vimprof/report"
	"github.com/ardnew/vimprof/runner"
)

// fakeEditor writes a shell script that appends text to the startup log
// named by its second argument, and returns the command running it.
func fakeEditor(t *testing.T, text string) []string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}

	body := fmt.Sprintf("#!/bin/sh\ncat >> \"$2\" <<'EOF'\n%sEOF\n", text)

	path := filepath.Join(t.TempDir(), "fake-nvim.sh")
	if err := os.WriteFile(path, []byte(body), 0o700); err != nil {
		t.Fatal(err)
	}

	return []string{sh, path}
}

func TestRun_Config(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		want    []string
	}{
		{"default_command", nil, runner.DefaultCommand},
		{"explicit_command", []string{"vim", "-u", "NONE"}, []string{"vim", "-u", "NONE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Run{
				Samples: 3,
				Retries: 1,
				Delay:   time.Millisecond,
				Jobs:    2,
				Timeout: time.Second,
				Command: tt.command,
			}

			want := runner.Config{
				Command: tt.want,
				Samples: 3,
				Retries: 1,
				Delay:   time.Millisecond,
				Jobs:    2,
				Timeout: time.Second,
			}

			if diff := cmp.Diff(want, r.config(context.Background())); diff != "" {
				t.Errorf("config() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_Report(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.txt")

	r := Run{
		Report:  Report{Format: report.FormatTable, Output: out},
		Samples: 2,
		Jobs:    2,
		Command: fakeEditor(t, startupLog),
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Startup times (total: 0.900ms)", "init.lua", "plugin.lua"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report does not contain %q:\n%s", want, data)
		}
	}
}

func TestRun_InvalidWhereSkipsRuns(t *testing.T) {
	r := Run{
		Report:  Report{Where: "samples ==", Output: filepath.Join(t.TempDir(), "out")},
		Samples: 1,
		Command: []string{"command-that-must-not-run"},
	}

	if err := r.Run(context.Background()); !errors.Is(err, report.ErrWhere) {
		t.Errorf("Run() error = %v, want %v", err, report.ErrWhere)
	}
}
