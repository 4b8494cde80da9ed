// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import "math/rand/v2"

// maxSampleAttempts bounds every rejection-sampling loop. A distribution
// whose parameters make acceptable values this rare is treated as
// misconfigured rather than risking non-termination.
const maxSampleAttempts = 10000

// JobSpecification captures the sampled resource requirements of one job in
// a batch. Infiles starts empty; [Workload.AssignFiles] populates it for
// workloads that read from configured datasets.
type JobSpecification struct {
	JobID      string
	Cores      int
	TotalFlops float64
	TotalMem   float64
	Outfile    FileID
	Infiles    []FileID
}

// samplePositive redraws until the sampler produces a strictly positive
// value, failing with a [DistributionError] when the attempt budget runs
// out. Rejection keeps the workload distributions free-form: a Gaussian
// with mass below zero is acceptable configuration, the negative draws are
// simply discarded.
func samplePositive(s RealSampler, rng *rand.Rand, quantity string) (float64, error) {
	for range maxSampleAttempts {
		if v := s(rng); v > 0 {
			return v, nil
		}
	}
	return 0, &DistributionError{Quantity: quantity, Attempts: maxSampleAttempts}
}

// sampleNonNegative is like samplePositive but accepts zero.
func sampleNonNegative(s RealSampler, rng *rand.Rand, quantity string) (float64, error) {
	for range maxSampleAttempts {
		if v := s(rng); v >= 0 {
			return v, nil
		}
	}
	return 0, &DistributionError{Quantity: quantity, Attempts: maxSampleAttempts}
}

// sampleAtLeast redraws until the integer sampler produces a value of at
// least floor.
func sampleAtLeast(s IntSampler, rng *rand.Rand, floor int, quantity string) (int, error) {
	for range maxSampleAttempts {
		if v := s(rng); v >= floor {
			return v, nil
		}
	}
	return 0, &DistributionError{Quantity: quantity, Attempts: maxSampleAttempts}
}
