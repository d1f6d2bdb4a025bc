package pkg

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "vimprof"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if v == "" {
		t.Fatal("Expected embedded Version to be non-empty")
	}

	if strings.TrimSpace(v) != v {
		t.Errorf("Expected Version without surrounding space, got %q", v)
	}

	if strings.Count(v, ".") != 2 {
		t.Errorf("Expected semantic version, got %q", v)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew"
	}) {
		t.Errorf("Expected Author to contain %q", "ardnew")
	}
}

func TestConfigPath_JoinsConfigDir(t *testing.T) {
	got := ConfigPath("config.yaml")
	want := filepath.Join(ConfigDir(), "config.yaml")

	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}

	if filepath.Base(filepath.Dir(got)) != Prefix() {
		t.Errorf("expected config dir to end with prefix %q, got %q", Prefix(), got)
	}
}

func TestError_IsMatchesDerivedErrors(t *testing.T) {
	sentinel := NewError("sentinel")
	other := NewError("other")

	derived := sentinel.Wrap(io.EOF).With(slog.String("key", "value"))

	if !errors.Is(derived, sentinel) {
		t.Error("expected derived error to match its sentinel")
	}

	if !errors.Is(derived, io.EOF) {
		t.Error("expected derived error to match wrapped cause")
	}

	if errors.Is(derived, other) {
		t.Error("expected derived error not to match unrelated sentinel")
	}

	if got := derived.Error(); got != "sentinel: EOF" {
		t.Errorf("Error() = %q, want %q", got, "sentinel: EOF")
	}

	if len(sentinel.Attrs()) != 0 {
		t.Error("With must not modify the sentinel")
	}
}

func TestError_LogValue(t *testing.T) {
	err := NewError("failed").Wrap(io.EOF).With(slog.Int("run", 3))

	attrs := err.LogValue().Group()

	keys := make([]string, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key
	}

	want := []string{"error", "cause", "run"}
	if !slices.Equal(keys, want) {
		t.Errorf("LogValue keys = %v, want %v", keys, want)
	}
}

func TestChain(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	c := MakeChain(nil, first, nil, second)

	if len(c) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(c))
	}

	if c.Last() != second {
		t.Errorf("Last() = %v, want %v", c.Last(), second)
	}

	if !errors.Is(c, first) || !errors.Is(c, second) {
		t.Error("expected chain to match both errors")
	}

	if got := c.Error(); got != "first; second" {
		t.Errorf("Error() = %q", got)
	}

	if MakeChain(nil).Last() != nil {
		t.Error("expected nil Last for empty chain")
	}
}
