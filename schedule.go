// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import (
	"cmp"

	"github.com/addrummond/heap"
)

// Submission pairs one job with the simulated time its workload enters the
// system.
type Submission struct {
	At       float64
	Workload int
	JobIndex int
	Job      *JobSpecification
}

// Cmp orders submissions by arrival time, breaking ties by workload order
// and then batch position, so a schedule is a total, deterministic order.
func (a *Submission) Cmp(b *Submission) int {
	if c := cmp.Compare(a.At, b.At); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Workload, b.Workload); c != 0 {
		return c
	}
	return cmp.Compare(a.JobIndex, b.JobIndex)
}

// BuildSchedule merges the jobs of all workloads into a single submission
// sequence ordered by arrival time. All jobs of a workload share the
// workload's arrival time, so batches interleave only when their arrival
// times do.
func BuildSchedule(workloads []*Workload) []Submission {
	var h heap.Heap[Submission, heap.Min]
	n := 0
	for wi, w := range workloads {
		for ji, job := range w.Jobs {
			heap.PushOrderable(&h, Submission{
				At:       w.Spec.ArrivalTime,
				Workload: wi,
				JobIndex: ji,
				Job:      job,
			})
			n++
		}
	}

	schedule := make([]Submission, 0, n)
	for {
		s, ok := heap.PopOrderable(&h)
		if !ok {
			break
		}
		schedule = append(schedule, s)
	}
	return schedule
}
