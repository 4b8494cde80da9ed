// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package scenario

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/petenewcomb/workgen"
)

// Options configures a generation pass. The zero value generates quietly
// with no external collaborators.
type Options struct {
	// Stager receives tier-placement decisions as they are made. Nil
	// records placement on the files only.
	Stager workgen.Stager

	// Executor receives the finished workflow and submission schedule. Nil
	// skips the handoff; the result still carries both.
	Executor workgen.Executor

	// Log receives pass progress and sampling diagnostics. Nil disables
	// logging.
	Log *zap.Logger
}

// Result is everything one generation pass produces.
type Result struct {
	// RunID identifies the pass, for correlating logs and traces across
	// repeated sweeps. It is the only field not determined by the document.
	RunID uuid.UUID

	Workflow  *workgen.Workflow
	Workloads []*workgen.Workload
	Datasets  []workgen.Dataset
	Schedule  []workgen.Submission
}

// Generate runs one full generation pass over doc: it validates the tier
// topology, registers the cataloged dataset files, samples and builds every
// workload in document order, plans cache placement for every task, and
// orders the submission schedule. The pass is deterministic given the
// document (see [workgen.NewRand]); only the result's RunID differs between
// runs.
//
// Errors are fatal to the pass and no partial result is returned; retrying
// without changing the document cannot help.
func Generate(ctx context.Context, doc *Document, opts Options) (*Result, error) {
	if doc == nil {
		panic("document may not be nil")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	tiers, err := doc.tierSet()
	if err != nil {
		return nil, err
	}

	rng := workgen.NewRand(doc.seed())
	wf := workgen.NewWorkflow()

	datasets := make([]workgen.Dataset, 0, len(doc.Datasets))
	for _, ds := range doc.Datasets {
		files := make([]workgen.FileID, 0, len(ds.Files))
		for _, f := range ds.Files {
			files = append(files, wf.AddFile(f.ID, f.Size))
		}
		datasets = append(datasets, workgen.Dataset{Name: ds.Name, Files: files})
	}

	workloads := make([]*workgen.Workload, 0, len(doc.Workloads))
	for i, wd := range doc.Workloads {
		w, err := buildWorkload(wf, doc, wd, rng, datasets, log)
		if err != nil {
			return nil, fmt.Errorf("workload %d (%s): %w", i, wd.NameSuffix, err)
		}
		workloads = append(workloads, w)
	}

	tiers.PlaceWorkflow(wf, doc.Hitrate, rng, opts.Stager)
	schedule := workgen.BuildSchedule(workloads)

	res := &Result{
		RunID:     uuid.New(),
		Workflow:  wf,
		Workloads: workloads,
		Datasets:  datasets,
		Schedule:  schedule,
	}
	log.Info("generated scenario",
		zap.Stringer("run_id", res.RunID),
		zap.Uint64("seed", doc.seed()),
		zap.Float64("hitrate", doc.Hitrate),
		zap.Int("tasks", len(wf.Tasks())),
		zap.Int("files", len(wf.Files())),
		zap.Int("submissions", len(schedule)))

	if opts.Executor != nil {
		opts.Executor.Execute(ctx, wf, schedule)
	}
	return res, nil
}

func buildWorkload(wf *workgen.Workflow, doc *Document, wd Workload, rng *rand.Rand, datasets []workgen.Dataset, log *zap.Logger) (*workgen.Workload, error) {
	switch wd.Type {
	case "streaming":
		flops, err := wd.Flops.spec()
		if err != nil {
			return nil, fmt.Errorf("flops: %w", err)
		}
		memory, err := wd.Memory.spec()
		if err != nil {
			return nil, fmt.Errorf("memory: %w", err)
		}
		infileSize, err := wd.InfileSize.spec()
		if err != nil {
			return nil, fmt.Errorf("infile_size: %w", err)
		}
		w, err := workgen.BuildStreamingWorkflow(wf, workgen.StreamingConfig{
			NumJobs:        wd.NumJobs,
			InfilesPerJob:  wd.InfilesPerJob,
			NameSuffix:     wd.NameSuffix,
			Flops:          flops,
			Memory:         memory,
			InfileSize:     infileSize,
			Blockstreaming: *doc.Streaming.Blockstreaming,
			BlockSize:      *doc.Streaming.BlockSize,
			DummyFlops:     *doc.Streaming.DummyFlops,
		}, rng)
		if err != nil {
			return nil, err
		}
		w.Spec.ArrivalTime = wd.ArrivalTime
		return w, nil

	case "copy":
		cores, err := wd.Cores.spec()
		if err != nil {
			return nil, fmt.Errorf("cores: %w", err)
		}
		flops, err := wd.Flops.spec()
		if err != nil {
			return nil, fmt.Errorf("flops: %w", err)
		}
		memory, err := wd.Memory.spec()
		if err != nil {
			return nil, fmt.Errorf("memory: %w", err)
		}
		outfileSize, err := wd.OutfileSize.spec()
		if err != nil {
			return nil, fmt.Errorf("outfile_size: %w", err)
		}
		w, err := workgen.NewWorkload(wf, workgen.WorkloadSpec{
			NumJobs:        wd.NumJobs,
			Type:           workgen.WorkloadCopy,
			NameSuffix:     wd.NameSuffix,
			ArrivalTime:    wd.ArrivalTime,
			InfileDatasets: wd.InfileDatasets,
			Cores:          cores,
			Flops:          flops,
			Memory:         memory,
			OutfileSize:    outfileSize,
		}, rng, log)
		if err != nil {
			return nil, err
		}
		if len(wd.InfileDatasets) > 0 {
			if err := w.AssignFiles(datasets); err != nil {
				return nil, err
			}
		}
		workgen.BuildCopyWorkflow(wf, w.Jobs)
		return w, nil

	default:
		// Parse validates workload types; reaching this is a bug.
		return nil, &workgen.ConfigurationError{
			Reason: fmt.Sprintf("unsupported workload type %q", wd.Type),
		}
	}
}

// GenerateBatch runs one generation pass per document, concurrently, and
// returns the results aligned with docs. At most workers passes run at a
// time; non-positive means one goroutine per document. Every document seeds
// its own generator, so concurrency does not disturb per-document
// determinism. The first error cancels the batch and no results are
// returned.
func GenerateBatch(ctx context.Context, docs []*Document, workers int, opts Options) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	results := make([]*Result, len(docs))
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Generate(ctx, doc, opts)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
