// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import (
	"github.com/gammazero/deque"
	"go.uber.org/zap"
)

// Dataset names an ordered collection of input files registered in a
// workflow. Datasets model pre-existing cataloged data; jobs consume them
// through [Workload.AssignFiles].
type Dataset struct {
	Name  string
	Files []FileID
}

// AssignFiles distributes the files of the datasets named by the workload's
// spec across the workload's jobs.
//
// The matching datasets' files are pooled in dataset order, preserving each
// dataset's internal file order. With N pooled files and J jobs, each job in
// batch order consumes the next k = N/J (floor) files, except that a job
// facing fewer than k remaining files takes them all and assignment stops,
// and the final job always drains the pool. The division remainder therefore
// lands entirely on the job reached when the pool runs out, not spread
// round-robin.
//
// No dataset matching the configured names is a [ConfigurationError]. An
// empty job batch is a no-op.
func (w *Workload) AssignFiles(datasets []Dataset) error {
	wanted := make(map[string]bool, len(w.Spec.InfileDatasets))
	for _, name := range w.Spec.InfileDatasets {
		wanted[name] = true
	}

	var pool deque.Deque[FileID]
	matched := 0
	for _, ds := range datasets {
		if !wanted[ds.Name] {
			continue
		}
		matched++
		for _, f := range ds.Files {
			pool.PushBack(f)
		}
	}
	if matched == 0 {
		return configErrorf("no dataset matches the configured infile dataset names %v", w.Spec.InfileDatasets)
	}
	if len(w.Jobs) == 0 {
		return nil
	}

	n := pool.Len()
	k := n / len(w.Jobs)
	w.logger().Info("assigning files to jobs",
		zap.Int("files", n),
		zap.Int("jobs", len(w.Jobs)))

	for idx, job := range w.Jobs {
		take := k
		if idx == len(w.Jobs)-1 || pool.Len() < k {
			take = pool.Len()
		}
		for range take {
			job.Infiles = append(job.Infiles, pool.PopFront())
		}
		if pool.Len() == 0 {
			break
		}
	}
	return nil
}
