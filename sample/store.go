// Package sample accumulates parsed trace samples across repeated runs and
// exposes the per-entity observation sequences consumed by package stats.
package sample

import (
	"slices"
	"sync"

	"github.com/ardnew/vimprof/trace"
)

// Observation is the sequence of per-run costs of one identifier.
//
// Values holds one entry per run in which the identifier appeared: the sum of
// its durations within that run. Runs that never sourced the identifier
// contribute no entry, so a conditionally sourced component is not penalized
// with zero observations.
type Observation struct {
	Identifier string
	Values     []float64
}

// Store is an ordered, append-only sequence of samples.
// Append order is run order. Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	samples []trace.Sample
}

// Add appends s to the store.
func (st *Store) Add(s trace.Sample) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.samples = append(st.samples, s)
}

// Len returns the number of samples.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.samples)
}

// Samples returns a copy of the stored samples in append order.
func (st *Store) Samples() []trace.Sample {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return slices.Clone(st.samples)
}

// Totals returns the total of every sample in append order.
func (st *Store) Totals() []float64 {
	st.mu.RLock()
	defer st.mu.RUnlock()

	totals := make([]float64, len(st.samples))
	for i, s := range st.samples {
		totals[i] = s.Total
	}

	return totals
}

// Observations returns, for every identifier that appears in at least one
// sample, the per-sample sums of its durations.
//
// Identifiers are ordered by first discovery: by the earliest sample in which
// they appear, then by their position within that sample.
func (st *Store) Observations() []Observation {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var obs []Observation

	index := make(map[string]int)

	for _, s := range st.samples {
		for _, c := range s.Components {
			i, ok := index[c.Identifier]
			if !ok {
				i = len(obs)
				index[c.Identifier] = i
				obs = append(obs, Observation{Identifier: c.Identifier})
			}

			obs[i].Values = append(obs[i].Values, c.Sum())
		}
	}

	return obs
}
