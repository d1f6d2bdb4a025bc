package report

import (
	"testing"

	"github.com/ardnew/vimprof/sample"
	"github.com/ardnew/vimprof/stats"
	"github.com/ardnew/vimprof/trace"
)

const startupLog = `0.100 0.100: --- NVIM STARTING ---
0.600 0.100 0.500: sourcing /a/b/init.lua
0.900 0.100 0.300: sourcing /a/c/plugin.lua
`

const pluginLog = `0.100 0.100: --- NVIM STARTING ---
0.600 0.100 0.500: sourcing /a/b/init.lua
0.900 0.100 0.300: sourcing /a/c/plugin.lua
1.300 0.100 0.100: sourcing /a/c/after/ftplugin.vim
1.500 0.100: VimEnter autocommands
`

func analyze(t *testing.T, logs ...string) stats.Report {
	t.Helper()

	var st sample.Store

	for _, text := range logs {
		s, err := trace.ParseString(text)
		if err != nil {
			t.Fatalf("ParseString() error = %v", err)
		}

		st.Add(s)
	}

	rep, err := stats.Analyze(&st)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	return rep
}

func ids(entities []stats.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Identifier
	}

	return out
}
