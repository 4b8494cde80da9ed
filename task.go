// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

// TaskID is an opaque handle to a [Task] within a [Workflow]. Handles are
// only meaningful to the workflow that issued them.
type TaskID int

// TaskKind distinguishes the two lanes of a streaming dependency chain.
type TaskKind int

const (
	// TaskTransfer models the arrival of one block of input data. Transfer
	// tasks carry a negligible resource footprint so that an engine
	// schedules them as I/O placeholders rather than real work.
	TaskTransfer TaskKind = iota + 1
	// TaskCompute models computation over one arrived block, proportionally
	// sized relative to the owning job's total work.
	TaskCompute
)

func (k TaskKind) String() string {
	switch k {
	case TaskTransfer:
		return "transfer"
	case TaskCompute:
		return "compute"
	default:
		return "unspecified"
	}
}

// Task is a node of a generated [Workflow]. Control-edge predecessors are
// mirrored here for direct inspection; the authoritative relation lives on
// the workflow.
type Task struct {
	ID     TaskID
	Name   string
	Kind   TaskKind
	Flops  float64
	Cores  int
	Memory float64

	// JobIndex is the position of the owning job within its workload batch.
	JobIndex int

	InputFiles   []FileID
	OutputFiles  []FileID
	Predecessors []TaskID
}
