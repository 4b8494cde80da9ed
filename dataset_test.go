// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen_test

import (
	"fmt"
	"testing"

	"github.com/petenewcomb/workgen"
	"github.com/stretchr/testify/require"
)

// catalogDataset registers n files in wf and returns them as a dataset.
func catalogDataset(wf *workgen.Workflow, name string, n int) workgen.Dataset {
	ds := workgen.Dataset{Name: name}
	for i := range n {
		ds.Files = append(ds.Files, wf.AddFile(fmt.Sprintf("%s_f%d", name, i), 1000))
	}
	return ds
}

// emptyBatch builds a workload of blank jobs wired to the named datasets,
// bypassing sampling so assignment can be tested in isolation.
func emptyBatch(jobs int, datasets ...string) *workgen.Workload {
	w := &workgen.Workload{Spec: workgen.WorkloadSpec{InfileDatasets: datasets}}
	for i := range jobs {
		w.Jobs = append(w.Jobs, &workgen.JobSpecification{JobID: fmt.Sprintf("job_%d", i)})
	}
	return w
}

func TestAssignFilesRemainderGoesToFinalJob(t *testing.T) {
	chk := require.New(t)
	wf := workgen.NewWorkflow()
	ds := catalogDataset(wf, "ds", 10)

	w := emptyBatch(3, "ds")
	chk.NoError(w.AssignFiles([]workgen.Dataset{ds}))

	// 10 files over 3 jobs: floor shares of 3 each, remainder on the last.
	chk.Len(w.Jobs[0].Infiles, 3)
	chk.Len(w.Jobs[1].Infiles, 3)
	chk.Len(w.Jobs[2].Infiles, 4)

	// Pool order is preserved job by job.
	chk.Equal(ds.Files[0:3], w.Jobs[0].Infiles)
	chk.Equal(ds.Files[3:6], w.Jobs[1].Infiles)
	chk.Equal(ds.Files[6:10], w.Jobs[2].Infiles)
}

func TestAssignFilesEvenSplit(t *testing.T) {
	chk := require.New(t)
	wf := workgen.NewWorkflow()
	ds := catalogDataset(wf, "ds", 8)

	w := emptyBatch(4, "ds")
	chk.NoError(w.AssignFiles([]workgen.Dataset{ds}))
	for _, job := range w.Jobs {
		chk.Len(job.Infiles, 2)
	}
}

func TestAssignFilesFewerFilesThanJobs(t *testing.T) {
	chk := require.New(t)
	wf := workgen.NewWorkflow()
	ds := catalogDataset(wf, "ds", 2)

	// Five jobs and two files: the floor share is zero, so everything lands
	// on the job that drains the pool.
	w := emptyBatch(5, "ds")
	chk.NoError(w.AssignFiles([]workgen.Dataset{ds}))
	chk.Empty(w.Jobs[0].Infiles)
	chk.Empty(w.Jobs[1].Infiles)
	chk.Empty(w.Jobs[2].Infiles)
	chk.Empty(w.Jobs[3].Infiles)
	chk.Equal(ds.Files, w.Jobs[4].Infiles)
}

func TestAssignFilesPoolsMatchingDatasetsInOrder(t *testing.T) {
	chk := require.New(t)
	wf := workgen.NewWorkflow()
	a := catalogDataset(wf, "a", 2)
	skip := catalogDataset(wf, "skip", 3)
	b := catalogDataset(wf, "b", 1)

	w := emptyBatch(1, "a", "b")
	chk.NoError(w.AssignFiles([]workgen.Dataset{a, skip, b}))

	// One job drains the whole pool: a's files then b's, none of skip's.
	chk.Equal([]workgen.FileID{a.Files[0], a.Files[1], b.Files[0]}, w.Jobs[0].Infiles)
}

func TestAssignFilesNoMatchingDataset(t *testing.T) {
	chk := require.New(t)
	wf := workgen.NewWorkflow()
	ds := catalogDataset(wf, "ds", 4)

	w := emptyBatch(2, "nope")
	err := w.AssignFiles([]workgen.Dataset{ds})
	var cfgErr *workgen.ConfigurationError
	chk.ErrorAs(err, &cfgErr)
	chk.ErrorContains(err, "no dataset matches")
	chk.Empty(w.Jobs[0].Infiles)
}

func TestAssignFilesEmptyBatch(t *testing.T) {
	chk := require.New(t)
	wf := workgen.NewWorkflow()
	ds := catalogDataset(wf, "ds", 4)

	w := emptyBatch(0, "ds")
	chk.NoError(w.AssignFiles([]workgen.Dataset{ds}))
}
