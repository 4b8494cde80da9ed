// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

// WorkloadType selects the shape of task graph built for a batch of jobs.
type WorkloadType int

const (
	// WorkloadStreaming splits each input file into blocks and overlaps
	// block transfer with block computation. See [BuildStreamingWorkflow].
	WorkloadStreaming WorkloadType = iota + 1
	// WorkloadCopy transfers each input file whole and runs a single
	// computation per job. See [BuildCopyWorkflow].
	WorkloadCopy
)

func (t WorkloadType) String() string {
	switch t {
	case WorkloadStreaming:
		return "streaming"
	case WorkloadCopy:
		return "copy"
	default:
		return "unspecified"
	}
}

// WorkloadSpec describes a batch of statistically identical jobs.
type WorkloadSpec struct {
	// NumJobs is the batch size. Zero is a valid, empty batch.
	NumJobs int

	// Type selects the task-graph shape built for the batch.
	Type WorkloadType

	// NameSuffix distinguishes the entities of this workload from those of
	// other workloads in the same pass. When non-empty it is spliced into
	// every generated job, task, and file name.
	NameSuffix string

	// ArrivalTime is the simulated time offset at which the whole batch
	// enters the system, relative to the start of the simulation.
	ArrivalTime float64

	// InfileDatasets names the datasets that supply the batch's input
	// files. Leave it empty for workloads that sample their own input
	// sizes instead of reading cataloged files.
	InfileDatasets []string

	// InfilesPerJob is the number of input files each streaming job reads.
	InfilesPerJob int

	// Sampling distributions, one per job quantity.
	Cores       DistributionSpec
	Flops       DistributionSpec
	Memory      DistributionSpec
	OutfileSize DistributionSpec
	InfileSize  DistributionSpec
}

// Workload is a sampled batch of jobs together with the [WorkloadSpec] that
// produced it. Construct one with [NewWorkload] or [BuildStreamingWorkflow].
type Workload struct {
	Spec WorkloadSpec
	Jobs []*JobSpecification

	log *zap.Logger
}

func (w *Workload) logger() *zap.Logger {
	if w.log == nil {
		return zap.NewNop()
	}
	return w.log
}

// NewWorkload samples a batch of jobs according to spec, registering each
// job's output file in wf. Per job it draws cores (at least one), total
// flops and total memory (strictly positive), and an output size (possibly
// zero), resampling rejected values up to the attempt budget. A non-nil
// error means the batch was abandoned; no partial batch is returned.
func NewWorkload(wf *Workflow, spec WorkloadSpec, rng *rand.Rand, log *zap.Logger) (*Workload, error) {
	if wf == nil {
		panic("workflow may not be nil")
	}
	if rng == nil {
		panic("generator may not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if spec.NumJobs < 0 {
		return nil, configErrorf("num_jobs may not be negative, got %d", spec.NumJobs)
	}

	factory := SamplerFactory{Log: log}
	cores, err := factory.Int(spec.Cores)
	if err != nil {
		return nil, fmt.Errorf("cores: %w", err)
	}
	flops, err := factory.Real(spec.Flops)
	if err != nil {
		return nil, fmt.Errorf("flops: %w", err)
	}
	memory, err := factory.Real(spec.Memory)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}
	outSize, err := factory.Real(spec.OutfileSize)
	if err != nil {
		return nil, fmt.Errorf("outfile size: %w", err)
	}

	w := &Workload{Spec: spec, log: log}
	w.Jobs = make([]*JobSpecification, 0, spec.NumJobs)
	for j := range spec.NumJobs {
		job, err := sampleJob(wf, spec.NameSuffix, j, rng, cores, flops, memory, outSize)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", j, err)
		}
		w.Jobs = append(w.Jobs, job)
	}
	log.Debug("sampled job batch",
		zap.String("suffix", spec.NameSuffix),
		zap.Int("jobs", len(w.Jobs)))
	return w, nil
}

// sampleJob draws one job's requirements. Draw order is fixed: cores, then
// flops, then memory, then output size. Reordering would change every
// generated batch for a given seed.
func sampleJob(wf *Workflow, suffix string, index int, rng *rand.Rand, cores IntSampler, flops, memory, outSize RealSampler) (*JobSpecification, error) {
	nc, err := sampleAtLeast(cores, rng, 1, "cores")
	if err != nil {
		return nil, err
	}
	jf, err := samplePositive(flops, rng, "total flops")
	if err != nil {
		return nil, err
	}
	jm, err := samplePositive(memory, rng, "total memory")
	if err != nil {
		return nil, err
	}
	os, err := sampleNonNegative(outSize, rng, "outfile size")
	if err != nil {
		return nil, err
	}
	return &JobSpecification{
		JobID:      entityName("job", suffix, index),
		Cores:      nc,
		TotalFlops: jf,
		TotalMem:   jm,
		Outfile:    wf.AddFile(entityName("outfile", suffix, index), os),
	}, nil
}

// entityName joins a prefix, an optional workload suffix, and an index. The
// suffix separator appears only when the suffix is non-empty, so unsuffixed
// workloads produce names like "job_0" rather than "job__0".
func entityName(prefix, suffix string, index int) string {
	if suffix == "" {
		return fmt.Sprintf("%s_%d", prefix, index)
	}
	return fmt.Sprintf("%s_%s_%d", prefix, suffix, index)
}
