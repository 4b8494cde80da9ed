// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import "context"

// Stager receives tier-placement decisions as the planner makes them,
// typically to create file replicas on simulated storage services. Calls are
// fire-and-forget: the planner neither expects nor interprets any outcome.
// Each task placement stages every input file on the remote tier exactly
// once, and on each cache tier at most once.
type Stager interface {
	StageFile(f *File, tier StorageTier)
}

// Executor receives a finished workflow together with its submission
// schedule, typically to run it under a discrete-event simulation engine.
// The call is fire-and-forget: execution results, timings, and completion
// events are the engine's business and are never interpreted here.
type Executor interface {
	Execute(ctx context.Context, wf *Workflow, schedule []Submission)
}
