// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import "math/rand/v2"

// PlaceTask decides tier placement for one task's input files against a
// target cache hit ratio. It shuffles the task's input file list in place
// using rng, then walks the shuffled order: every file is placed on (and
// staged to) the remote tier, and files are additionally placed on every
// cache tier while the cumulative cached size has not yet reached
// hitrate times the task's total input size.
//
// The threshold is checked before adding the candidate's size, so the
// realized cached fraction can overshoot the target by up to one file. It is
// a statistical estimator, not an exact constraint, and it is applied per
// task: two tasks of the same job can realize different local hit fractions.
// A hitrate of one caches everything; a hitrate of zero, or a tier set
// without cache tiers, caches nothing.
//
// Placement is pure arithmetic over files already in the workflow; it never
// fails. A nil stager records placement on the files only. Cache membership
// already present on a file is never revoked.
func (ts *TierSet) PlaceTask(wf *Workflow, id TaskID, hitrate float64, rng *rand.Rand, stager Stager) {
	if rng == nil {
		panic("generator may not be nil")
	}
	task := wf.Task(id)

	files := task.InputFiles
	rng.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})

	var total float64
	for _, fid := range files {
		total += wf.File(fid).SizeBytes
	}

	admit := hitrate > 0 && len(ts.caches) > 0
	var cached float64
	for _, fid := range files {
		f := wf.File(fid)
		f.Placement |= TierRemote.mask()
		if stager != nil {
			stager.StageFile(f, ts.remote)
		}
		if admit && cached <= hitrate*total {
			f.Placement |= TierCache.mask()
			for _, cache := range ts.caches {
				if stager != nil {
					stager.StageFile(f, cache)
				}
			}
			cached += f.SizeBytes
		}
	}
}

// PlaceWorkflow applies [TierSet.PlaceTask] to every task in creation
// order. Tasks without input files are unaffected.
func (ts *TierSet) PlaceWorkflow(wf *Workflow, hitrate float64, rng *rand.Rand, stager Stager) {
	for _, task := range wf.Tasks() {
		ts.PlaceTask(wf, task.ID, hitrate, rng, stager)
	}
}
