// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

// FileID is an opaque handle to a [File] within a [Workflow]. Handles are
// only meaningful to the workflow that issued them.
type FileID int

// TierMask is a set of storage tier kinds. The placement planner only ever
// adds bits within a generation pass; membership is never revoked.
type TierMask uint8

// Has reports whether the mask includes tier kind k.
func (m TierMask) Has(k TierKind) bool {
	return m&k.mask() != 0
}

// File is a unit of data transferred or produced by tasks. SizeBytes is
// real-valued because block sizes arise from continuous distributions and
// proportional splits, not from byte-accurate accounting.
type File struct {
	ID        FileID
	Name      string
	SizeBytes float64

	// Placement records which tier kinds hold a replica. Every file placed
	// by the planner gains remote membership; cache membership is optional.
	Placement TierMask
}
