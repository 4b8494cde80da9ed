// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import (
	"math"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"
)

// DistKind identifies one of the supported distribution families. The zero
// value is not a valid kind, so an unpopulated [DistributionSpec] fails
// sampler construction instead of silently sampling from a default.
type DistKind int

const (
	// DistGaussian is a normal distribution parameterized by Mean and Sigma.
	// It supports real-valued sampling only.
	DistGaussian DistKind = iota + 1
	// DistPoisson is a Poisson distribution parameterized by Mu. It supports
	// integer-valued sampling only.
	DistPoisson
	// DistHistogram is an empirical distribution parameterized by Weights
	// and, for real-valued sampling, BinEdges. Real-valued sampling draws
	// uniformly within a weight-chosen bin; integer-valued sampling draws a
	// bin index.
	DistHistogram
)

func (k DistKind) String() string {
	switch k {
	case DistGaussian:
		return "gaussian"
	case DistPoisson:
		return "poisson"
	case DistHistogram:
		return "histogram"
	default:
		return "unspecified"
	}
}

// DistributionSpec declares a distribution to sample a job property from.
// Only the fields relevant to Kind are consulted; the rest are ignored.
// Use [Gaussian], [Poisson], or [Histogram] to build one in code. Whether a
// spec is valid depends on how it is used: a Poisson spec can build an
// integer sampler but not a real-valued one, and vice versa for a Gaussian
// spec. See [SamplerFactory.Real] and [SamplerFactory.Int].
type DistributionSpec struct {
	Kind DistKind

	// Mean and Sigma parameterize a Gaussian. Sigma must be non-negative;
	// zero yields a constant sampler, which is useful in tests.
	Mean  float64
	Sigma float64

	// Mu parameterizes a Poisson and must be positive.
	Mu float64

	// BinEdges and Weights parameterize a histogram. Real-valued sampling
	// requires len(BinEdges) == len(Weights)+1 with strictly increasing
	// edges. Integer-valued sampling uses Weights alone.
	BinEdges []float64
	Weights  []float64
}

// Gaussian returns a normal distribution spec.
func Gaussian(mean, sigma float64) DistributionSpec {
	return DistributionSpec{Kind: DistGaussian, Mean: mean, Sigma: sigma}
}

// Poisson returns a Poisson distribution spec.
func Poisson(mu float64) DistributionSpec {
	return DistributionSpec{Kind: DistPoisson, Mu: mu}
}

// Histogram returns an empirical distribution spec over the given bin edges
// and per-bin weights.
func Histogram(edges, weights []float64) DistributionSpec {
	return DistributionSpec{Kind: DistHistogram, BinEdges: edges, Weights: weights}
}

// RealSampler draws a real-valued sample. It consumes randomness exclusively
// from the supplied generator, so a caller that threads one generator
// through all of its draws in a fixed order obtains a reproducible sequence.
type RealSampler func(rng *rand.Rand) float64

// IntSampler draws an integer-valued sample. It has the same determinism
// contract as [RealSampler].
type IntSampler func(rng *rand.Rand) int

// SamplerFactory builds samplers from declarative [DistributionSpec] values.
// All validation happens at construction time; the samplers themselves never
// fail. The zero value is ready to use and logs nowhere.
type SamplerFactory struct {
	// Log receives construction-time diagnostics. Nil means no logging.
	Log *zap.Logger
}

func (f SamplerFactory) logger() *zap.Logger {
	if f.Log == nil {
		return zap.NewNop()
	}
	return f.Log
}

// Real builds a real-valued sampler from spec. Gaussian specs map to a
// normal distribution and histogram specs to a piecewise-constant one that
// draws a bin with probability proportional to its weight and then a value
// uniformly within that bin. Any other kind returns a [ConfigurationError].
func (f SamplerFactory) Real(spec DistributionSpec) (RealSampler, error) {
	switch spec.Kind {
	case DistGaussian:
		if spec.Sigma < 0 || math.IsNaN(spec.Sigma) {
			return nil, configErrorf("gaussian sigma must be non-negative, got %v", spec.Sigma)
		}
		mean, sigma := spec.Mean, spec.Sigma
		return func(rng *rand.Rand) float64 {
			return distuv.Normal{Mu: mean, Sigma: sigma, Src: rng}.Rand()
		}, nil
	case DistHistogram:
		if err := validateWeights(spec.Weights); err != nil {
			return nil, err
		}
		if len(spec.BinEdges) != len(spec.Weights)+1 {
			return nil, configErrorf("histogram requires one more bin edge than weights, got %d edges for %d weights",
				len(spec.BinEdges), len(spec.Weights))
		}
		for i := 1; i < len(spec.BinEdges); i++ {
			if !(spec.BinEdges[i] > spec.BinEdges[i-1]) {
				return nil, configErrorf("histogram bin edges must be strictly increasing at index %d", i)
			}
		}
		edges := slices.Clone(spec.BinEdges)
		weights := slices.Clone(spec.Weights)
		return func(rng *rand.Rand) float64 {
			bin := int(distuv.NewCategorical(weights, rng).Rand())
			return distuv.Uniform{Min: edges[bin], Max: edges[bin+1], Src: rng}.Rand()
		}, nil
	default:
		return nil, configErrorf("unsupported real-valued distribution kind %q", spec.Kind)
	}
}

// Int builds an integer-valued sampler from spec. Poisson specs map to a
// Poisson distribution. Histogram specs draw a bin index with probability
// proportional to its weight; any configured bin edges are ignored with a
// warning, as only the index is meaningful for integer quantities. Any other
// kind returns a [ConfigurationError].
func (f SamplerFactory) Int(spec DistributionSpec) (IntSampler, error) {
	switch spec.Kind {
	case DistPoisson:
		if !(spec.Mu > 0) {
			return nil, configErrorf("poisson mu must be positive, got %v", spec.Mu)
		}
		mu := spec.Mu
		return func(rng *rand.Rand) int {
			return int(distuv.Poisson{Lambda: mu, Src: rng}.Rand())
		}, nil
	case DistHistogram:
		if err := validateWeights(spec.Weights); err != nil {
			return nil, err
		}
		if len(spec.BinEdges) > 0 {
			f.logger().Warn("ignoring configured bins for integer distribution",
				zap.Int("bins", len(spec.BinEdges)))
		}
		weights := slices.Clone(spec.Weights)
		return func(rng *rand.Rand) int {
			return int(distuv.NewCategorical(weights, rng).Rand())
		}, nil
	default:
		return nil, configErrorf("unsupported integer-valued distribution kind %q", spec.Kind)
	}
}

func validateWeights(weights []float64) error {
	if len(weights) == 0 {
		return configErrorf("histogram requires at least one weight")
	}
	var sum float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return configErrorf("histogram weights must be non-negative, got %v at index %d", w, i)
		}
		sum += w
	}
	if sum <= 0 {
		return configErrorf("histogram weights must have a positive sum")
	}
	return nil
}
