// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package gentest provides rapid draw helpers that produce well-formed
// randomized inputs for workload-generation tests: distribution specs whose
// rejection loops terminate quickly, and storage topologies that pass
// validation.
package gentest

import (
	"fmt"

	"pgregory.net/rapid"

	"github.com/petenewcomb/workgen"
)

// RealDistConfig draws real-valued distribution specs. Gaussian draws keep
// sigma within MaxRelSigma times the mean so that rejection sampling of
// positive values terminates quickly; histogram draws keep every bin edge at
// or above Min so samples come out positive outright.
type RealDistConfig struct {
	Min         float64
	Max         float64
	MaxRelSigma float64
}

func (c RealDistConfig) Draw(t *rapid.T, name string) workgen.DistributionSpec {
	if !(c.Min > 0) || c.Max < c.Min || c.MaxRelSigma < 0 {
		panic(fmt.Sprint("invalid RealDistConfig: ", c))
	}
	return rapid.Custom(func(t *rapid.T) workgen.DistributionSpec {
		if rapid.Bool().Draw(t, name+"(useHistogram)") {
			nbins := rapid.IntRange(1, 4).Draw(t, name+"(bins)")
			edges := make([]float64, nbins+1)
			edges[0] = c.Min
			for i := 1; i <= nbins; i++ {
				step := rapid.Float64Range(c.Min/8, max(c.Min/8, (c.Max-c.Min)/float64(nbins))).
					Draw(t, fmt.Sprintf("%s(edge%d)", name, i))
				edges[i] = edges[i-1] + step
			}
			weights := make([]float64, nbins)
			for i := range weights {
				weights[i] = rapid.Float64Range(0.1, 10).Draw(t, fmt.Sprintf("%s(weight%d)", name, i))
			}
			return workgen.Histogram(edges, weights)
		}
		mean := rapid.Float64Range(c.Min, c.Max).Draw(t, name+"(mean)")
		sigma := rapid.Float64Range(0, mean*c.MaxRelSigma).Draw(t, name+"(sigma)")
		return workgen.Gaussian(mean, sigma)
	}).Draw(t, name)
}

// IntDistConfig draws integer-valued distribution specs: a Poisson with mu
// in [MinMu, MaxMu], or an index histogram over at least two indices with
// every weight positive, so draws of one or more stay likely.
type IntDistConfig struct {
	MinMu float64
	MaxMu float64
}

func (c IntDistConfig) Draw(t *rapid.T, name string) workgen.DistributionSpec {
	if !(c.MinMu > 0) || c.MaxMu < c.MinMu {
		panic(fmt.Sprint("invalid IntDistConfig: ", c))
	}
	return rapid.Custom(func(t *rapid.T) workgen.DistributionSpec {
		if rapid.Bool().Draw(t, name+"(useHistogram)") {
			n := rapid.IntRange(2, 6).Draw(t, name+"(indices)")
			weights := make([]float64, n)
			for i := range weights {
				weights[i] = rapid.Float64Range(0.1, 10).Draw(t, fmt.Sprintf("%s(weight%d)", name, i))
			}
			return workgen.Histogram(nil, weights)
		}
		mu := rapid.Float64Range(c.MinMu, c.MaxMu).Draw(t, name+"(mu)")
		return workgen.Poisson(mu)
	}).Draw(t, name)
}

// TierSetConfig draws valid storage topologies: exactly one remote tier plus
// up to MaxCaches cache tiers.
type TierSetConfig struct {
	MaxCaches int
}

func (c TierSetConfig) Draw(t *rapid.T, name string) []workgen.StorageTier {
	if c.MaxCaches < 0 {
		panic(fmt.Sprint("invalid TierSetConfig: ", c))
	}
	return rapid.Custom(func(t *rapid.T) []workgen.StorageTier {
		tiers := []workgen.StorageTier{{Name: "remote0", Kind: workgen.TierRemote}}
		n := rapid.IntRange(0, c.MaxCaches).Draw(t, name+"(caches)")
		for i := range n {
			tiers = append(tiers, workgen.StorageTier{
				Name: fmt.Sprintf("cache%d", i),
				Kind: workgen.TierCache,
			})
		}
		return tiers
	}).Draw(t, name)
}
