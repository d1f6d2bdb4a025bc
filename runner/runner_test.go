package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

const startupLog = `0.100 0.100: --- NVIM STARTING ---
0.600 0.100 0.500: sourcing /a/b/init.lua
0.900 0.100 0.300: sourcing /a/c/plugin.lua
`

// script writes an executable shell script and returns the command running
// it. The script receives the startup log arguments: $1 is --startuptime and
// $2 is the log path.
func script(t *testing.T, body string) []string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}

	path := filepath.Join(t.TempDir(), "fake-nvim.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700); err != nil {
		t.Fatal(err)
	}

	return []string{sh, path}
}

func writeLog(text string) string {
	return fmt.Sprintf("cat >> \"$2\" <<'EOF'\n%sEOF", text)
}

func TestRunner_CollectsSamplesInRunOrder(t *testing.T) {
	r := New(Config{
		Command: script(t, writeLog(startupLog)),
		Samples: 4,
		Jobs:    2,
		Dir:     t.TempDir(),
	})

	var (
		mu       sync.Mutex
		progress []Progress
	)

	r.OnProgress = func(p Progress) {
		mu.Lock()
		defer mu.Unlock()

		progress = append(progress, p)
	}

	st, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if st.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", st.Len())
	}

	for i, total := range st.Totals() {
		if total != 0.9 {
			t.Errorf("Totals()[%d] = %v, want 0.9", i, total)
		}
	}

	if len(progress) != 4 {
		t.Fatalf("progress calls = %d, want 4", len(progress))
	}

	seen := map[int]bool{}
	for _, p := range progress {
		seen[p.Completed] = true

		if p.Total != 4 || p.Skipped {
			t.Errorf("progress = %+v", p)
		}
	}

	for n := 1; n <= 4; n++ {
		if !seen[n] {
			t.Errorf("no progress reported %d completed runs", n)
		}
	}
}

func TestRunner_StaleLogIsReplaced(t *testing.T) {
	// Each attempt must start from an empty log even though the editor
	// appends to it.
	r := New(Config{
		Command: script(t, writeLog(startupLog)),
		Samples: 2,
		Dir:     t.TempDir(),
	})

	st, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range st.Samples() {
		c, ok := s.Lookup("/a/b/init.lua")
		if !ok || len(c.Durations) != 1 {
			t.Errorf("durations = %v, want one entry", c.Durations)
		}
	}
}

func TestRunner_MissingLogIsSkipped(t *testing.T) {
	r := New(Config{
		Command: script(t, "exit 0"),
		Samples: 2,
		Dir:     t.TempDir(),
	})

	skipped := 0
	r.OnProgress = func(p Progress) {
		if p.Skipped {
			skipped++
		}
	}

	st, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if st.Len() != 0 || skipped != 2 {
		t.Errorf("Len()/skipped = %d/%d, want 0/2", st.Len(), skipped)
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	r := New(Config{
		Command: script(t, "echo 'E5113: boom' >&2\nexit 3"),
		Samples: 3,
		Retries: 2,
		Dir:     t.TempDir(),
	})

	_, err := r.Run(context.Background())
	if !errors.Is(err, ErrRun) || !errors.Is(err, ErrExit) {
		t.Fatalf("Run() error = %v, want %v wrapping %v", err, ErrRun, ErrExit)
	}

	// One error per attempt.
	if got := strings.Count(err.Error(), ErrExit.Error()); got != 3 {
		t.Errorf("attempt errors = %d, want 3: %v", got, err)
	}

	var exit *exec.ExitError
	if !errors.As(err, &exit) || exit.ExitCode() != 3 {
		t.Errorf("exit error = %v, want code 3", exit)
	}
}

func TestRunner_RetriesFlakyRun(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "failed-once")

	body := fmt.Sprintf("if [ ! -e %q ]; then touch %q; exit 1; fi\n%s", marker, marker, writeLog(startupLog))

	r := New(Config{
		Command: script(t, body),
		Samples: 1,
		Retries: 1,
		Delay:   time.Millisecond,
		Dir:     t.TempDir(),
	})

	st, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if st.Len() != 1 {
		t.Errorf("Len() = %d, want 1", st.Len())
	}
}

func TestRunner_CommandNotFound(t *testing.T) {
	r := New(Config{
		Command: []string{filepath.Join(t.TempDir(), "no-such-editor")},
		Samples: 1,
		Retries: 5,
		Dir:     t.TempDir(),
	})

	_, err := r.Run(context.Background())
	if !errors.Is(err, ErrStart) {
		t.Fatalf("Run() error = %v, want %v", err, ErrStart)
	}

	// Start failures are not retried.
	if strings.Count(err.Error(), ErrStart.Error()) != 1 {
		t.Errorf("Run() error = %v, want a single attempt", err)
	}
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{
		Command: script(t, writeLog(startupLog)),
		Samples: 2,
		Dir:     t.TempDir(),
	})

	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestRunner_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty command", Config{Samples: 1}},
		{"no samples", Config{Command: DefaultCommand}},
		{"negative retries", Config{Command: DefaultCommand, Samples: 1, Retries: -1}},
		{"negative delay", Config{Command: DefaultCommand, Samples: 1, Delay: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg).Run(context.Background()); !errors.Is(err, ErrConfig) {
				t.Errorf("Run() error = %v, want %v", err, ErrConfig)
			}
		})
	}
}

func TestArgs(t *testing.T) {
	got := strings.Join(Args("/tmp/x.log"), " ")
	if got != "--startuptime /tmp/x.log -c qa!" {
		t.Errorf("Args() = %q", got)
	}
}
