package stats

import (
	"log/slog"
	"math"

	"github.com/ardnew/vimprof/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrIdentifier  = pkg.NewError("empty entity identifier")
	ErrObservation = pkg.NewError("invalid observation")
)

// Entity summarizes the observations of one entity: a sourced identifier, or
// the synthetic [TotalIdentifier].
type Entity struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Count      int    `json:"count"      yaml:"count"`
	// Total is the sum of all observations (milliseconds).
	Total float64 `json:"total" yaml:"total"`
	Min   Value   `json:"min"   yaml:"min"`
	Max   Value   `json:"max"   yaml:"max"`
	Mean  Value   `json:"mean"  yaml:"mean"`
	// Spread is the sample standard deviation, or [NotApplicable] for a
	// single observation.
	Spread Value `json:"spread" yaml:"spread"`
	// Share is Total relative to the grand total, or [NoData] if the grand
	// total is zero.
	Share Value `json:"share" yaml:"share"`
}

// LogValue implements slog.LogValuer.
func (e Entity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("identifier", e.Identifier),
		slog.Int("count", e.Count),
		slog.Any("mean", e.Mean),
		slog.Any("share", e.Share),
	)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Compute reduces observations of the named entity into an [Entity].
//
// Observations must be finite and non-negative. An empty sequence yields an
// Entity whose reductions are [NoData].
func Compute(
	identifier string,
	observations []float64,
	grandTotal float64,
) (Entity, error) {
	if identifier == "" {
		return Entity{}, ErrIdentifier
	}

	if !finite(grandTotal) || grandTotal < 0 {
		return Entity{}, ErrObservation.With(
			slog.String("identifier", identifier),
			slog.Float64("grand_total", grandTotal),
		)
	}

	e := Entity{
		Identifier: identifier,
		Count:      len(observations),
		Min:        NoData,
		Max:        NoData,
		Mean:       NoData,
		Spread:     NoData,
		Share:      NoData,
	}

	if len(observations) == 0 {
		return e, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)

	for i, v := range observations {
		if !finite(v) || v < 0 {
			return Entity{}, ErrObservation.With(
				slog.String("identifier", identifier),
				slog.Int("index", i),
				slog.Float64("value", v),
			)
		}

		e.Total += v
		lo = min(lo, v)
		hi = max(hi, v)
	}

	n := float64(len(observations))

	e.Min = Float(lo)
	e.Max = Float(hi)
	e.Mean = Float(e.Total / n)
	e.Spread = spread(observations)
	e.Share = Ratio(e.Total, grandTotal)

	return e, nil
}

// spread returns the sample standard deviation (divisor n-1) of obs.
//
// Deviations are accumulated relative to the first observation, so identical
// observations produce exactly zero.
func spread(obs []float64) Value {
	if len(obs) < 2 {
		return NotApplicable
	}

	k, n := obs[0], float64(len(obs))

	var sum, sumSq float64

	for _, v := range obs {
		d := v - k
		sum += d
		sumSq += d * d
	}

	variance := (sumSq - sum*sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}

	return Float(math.Sqrt(variance))
}
