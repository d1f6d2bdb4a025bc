package stats

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/ardnew/vimprof/sample"
)

// TotalIdentifier names the synthetic entity summarizing run totals.
const TotalIdentifier = "Total"

// Source provides the observation sequences of a completed profiling session.
// It is implemented by [sample.Store].
type Source interface {
	Totals() []float64
	Observations() []sample.Observation
}

// Report is the result of [Analyze].
type Report struct {
	// Samples is the number of runs analyzed.
	Samples int `json:"samples" yaml:"samples"`
	// Total summarizes the run totals.
	Total Entity `json:"total" yaml:"total"`
	// Entities summarizes each sourced identifier, sorted by mean descending.
	Entities []Entity `json:"entities" yaml:"entities"`
}

// Empty reports whether no samples were analyzed.
func (r Report) Empty() bool { return r.Samples == 0 }

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("samples", r.Samples),
		slog.Int("entities", len(r.Entities)),
		slog.Any("mean", r.Total.Mean),
	)
}

// Analyze computes the [Report] of all samples provided by src.
//
// With zero samples, the report has no entities and a Total entity whose
// statistics are [NoData].
func Analyze(src Source) (Report, error) {
	totals := src.Totals()

	var grand float64
	for _, t := range totals {
		grand += t
	}

	total, err := Compute(TotalIdentifier, totals, grand)
	if err != nil {
		return Report{}, err
	}

	if total.Count > 0 {
		// The total is its own reference.
		total.Share = Float(1)
	}

	rep := Report{Samples: len(totals), Total: total}

	for _, obs := range src.Observations() {
		e, err := Compute(obs.Identifier, obs.Values, total.Total)
		if err != nil {
			return Report{}, err
		}

		rep.Entities = append(rep.Entities, e)
	}

	// Stable: ties keep first-discovery order.
	slices.SortStableFunc(rep.Entities, func(a, b Entity) int {
		return cmp.Compare(b.Mean.Or(0), a.Mean.Or(0))
	})

	return rep, nil
}
