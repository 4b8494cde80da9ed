// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import "fmt"

// ConfigurationError indicates that a scenario or workload parameter cannot
// produce a valid generation pass: an unsupported distribution kind, a
// malformed histogram, a dataset reference that matches nothing, or a tier
// set without exactly one remote tier.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// DistributionError indicates that a rejection-sampling loop exhausted its
// attempt budget without drawing an acceptable value. Quantity names the
// value being sampled.
type DistributionError struct {
	Quantity string
	Attempts int
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("no acceptable %s after %d draws", e.Quantity, e.Attempts)
}
