package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

type resolverApp struct {
	LogLevel string        `default:"warn"`
	Samples  int           `default:"10"`
	Delay    time.Duration `default:"1s"`
	Ratio    float64       `default:"0.5"`
	Pretty   bool          `default:"true" negatable:""`
}

func parseWithConfig(t *testing.T, doc string, args ...string) resolverApp {
	t.Helper()

	var app resolverApp

	r, err := resolve(baseConfig)(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	parser, err := kong.New(&app, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	return app
}

func TestResolve(t *testing.T) {
	defaults := resolverApp{LogLevel: "warn", Samples: 10, Delay: time.Second, Ratio: 0.5, Pretty: true}

	tests := []struct {
		name string
		doc  string
		args []string
		want resolverApp
	}{
		{
			name: "empty_document",
			doc:  "",
			want: defaults,
		},
		{
			name: "hyphenated_keys",
			doc: `config:
  log-level: debug
  samples: 20
  delay: 250ms
  ratio: 0.25
  pretty: false
`,
			want: resolverApp{LogLevel: "debug", Samples: 20, Delay: 250 * time.Millisecond, Ratio: 0.25},
		},
		{
			name: "underscore_keys",
			doc: `config:
  log_level: info
`,
			want: resolverApp{LogLevel: "info", Samples: 10, Delay: time.Second, Ratio: 0.5, Pretty: true},
		},
		{
			name: "flags_override_config",
			doc: `config:
  samples: 20
`,
			args: []string{"--samples=3"},
			want: resolverApp{LogLevel: "warn", Samples: 3, Delay: time.Second, Ratio: 0.5, Pretty: true},
		},
		{
			name: "other_mapping_ignored",
			doc: `other:
  samples: 20
`,
			want: defaults,
		},
		{
			name: "malformed_document_ignored",
			doc:  "config: [unterminated",
			want: defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseWithConfig(t, tt.doc, tt.args...); got != tt.want {
				t.Errorf("parsed %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{uint64(7), "7"},
		{int64(-7), "-7"},
		{1.25, "1.25"},
		{true, true},
		{"text", "text"},
	}

	for _, tt := range tests {
		if got := scalar(tt.in); got != tt.want {
			t.Errorf("scalar(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
