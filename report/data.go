package report

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/vimprof/pathtree"
	"github.com/ardnew/vimprof/stats"
)

// Document is the structure written by the json and yaml formats.
type Document struct {
	Samples  int            `json:"samples"        yaml:"samples"`
	Total    stats.Entity   `json:"total"          yaml:"total"`
	Entities []stats.Entity `json:"entities"       yaml:"entities"`
	Tree     *pathtree.Node `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// MakeDocument returns the document of v. A view without samples has no
// tree.
func MakeDocument(v View) Document {
	d := Document{
		Samples:  v.Samples,
		Total:    v.Total,
		Entities: v.Entities,
	}

	if d.Entities == nil {
		d.Entities = []stats.Entity{}
	}

	if !v.Empty() {
		t := v.Tree()
		d.Tree = &t
	}

	return d
}

func renderJSON(w io.Writer, v View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(MakeDocument(v))
}

func renderYAML(w io.Writer, v View) error {
	return yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true)).
		Encode(MakeDocument(v))
}
