// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import (
	"fmt"
	"math/rand/v2"
)

// maxBlocksPerFile caps how many blocks a single input file may split into,
// keeping the float-to-int conversion of the block count in range.
const maxBlocksPerFile = 1 << 30

// StreamingConfig parameterizes [BuildStreamingWorkflow].
type StreamingConfig struct {
	// NumJobs is the batch size and InfilesPerJob the number of input files
	// each job streams.
	NumJobs       int
	InfilesPerJob int

	// NameSuffix distinguishes this batch's entities, as in [WorkloadSpec].
	NameSuffix string

	// Flops and Memory are drawn once per job; InfileSize once per input
	// file. All three draws must be strictly positive and are resampled
	// until they are.
	Flops      DistributionSpec
	Memory     DistributionSpec
	InfileSize DistributionSpec

	// Blockstreaming splits each file into BlockSize-byte blocks plus a
	// remainder. When it is false every file is transferred as one block
	// regardless of BlockSize.
	Blockstreaming bool
	BlockSize      float64

	// DummyFlops is the resource footprint of transfer tasks: tiny, so an
	// engine schedules them by data arrival rather than compute capacity,
	// but positive, so per-flop accounting stays finite.
	DummyFlops float64
}

// BuildStreamingWorkflow appends a batch of block-streaming jobs to wf and
// returns the batch. Each job processes its input files as a sequence of
// blocks with two parallel dependency chains:
//
//   - a transfer chain, one minimal-footprint task per block carrying the
//     block's file as input, each gated only on the previous transfer; and
//   - a compute chain, one task per block gated on both the block's own
//     transfer and the previous compute.
//
// Because a block's transfer never depends on any compute, an engine can
// overlap the transfer of later blocks with computation over earlier ones,
// which is what makes the batch "streaming". Both chains continue across
// file boundaries within a job, and each compute task receives the share of
// the job's flops proportional to its block's share of the file. The final
// compute task of each job produces a zero-size output file representing
// the job's deliverable.
//
// The returned workload's job specifications summarize the per-job draws;
// block tasks always request a single core.
func BuildStreamingWorkflow(wf *Workflow, cfg StreamingConfig, rng *rand.Rand) (*Workload, error) {
	if wf == nil {
		panic("workflow may not be nil")
	}
	if rng == nil {
		panic("generator may not be nil")
	}
	if cfg.NumJobs < 0 {
		return nil, configErrorf("num_jobs may not be negative, got %d", cfg.NumJobs)
	}
	if cfg.InfilesPerJob < 0 {
		return nil, configErrorf("infiles_per_job may not be negative, got %d", cfg.InfilesPerJob)
	}
	if cfg.Blockstreaming && !(cfg.BlockSize > 0) {
		return nil, configErrorf("block_size must be positive when blockstreaming is enabled, got %v", cfg.BlockSize)
	}

	factory := SamplerFactory{}
	flops, err := factory.Real(cfg.Flops)
	if err != nil {
		return nil, fmt.Errorf("flops: %w", err)
	}
	memory, err := factory.Real(cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}
	infileSize, err := factory.Real(cfg.InfileSize)
	if err != nil {
		return nil, fmt.Errorf("infile size: %w", err)
	}

	w := &Workload{Spec: WorkloadSpec{
		NumJobs:       cfg.NumJobs,
		Type:          WorkloadStreaming,
		NameSuffix:    cfg.NameSuffix,
		InfilesPerJob: cfg.InfilesPerJob,
		Flops:         cfg.Flops,
		Memory:        cfg.Memory,
		InfileSize:    cfg.InfileSize,
	}}
	w.Jobs = make([]*JobSpecification, 0, cfg.NumJobs)
	for j := range cfg.NumJobs {
		job, err := buildStreamingJob(wf, cfg, rng, j, flops, memory, infileSize)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", j, err)
		}
		w.Jobs = append(w.Jobs, job)
	}
	return w, nil
}

func buildStreamingJob(wf *Workflow, cfg StreamingConfig, rng *rand.Rand, j int, flops, memory, infileSize RealSampler) (*JobSpecification, error) {
	jobFlops, err := samplePositive(flops, rng, "job flops")
	if err != nil {
		return nil, err
	}
	jobMem, err := samplePositive(memory, rng, "job memory")
	if err != nil {
		return nil, err
	}

	// Chain tails, carried across file boundaries so that each file's first
	// block links after the previous file's last block.
	prevTransfer := TaskID(-1)
	prevCompute := TaskID(-1)

	for f := range cfg.InfilesPerJob {
		fileSize, err := samplePositive(infileSize, rng, "infile size")
		if err != nil {
			return nil, err
		}

		blockSize := cfg.BlockSize
		if !cfg.Blockstreaming {
			blockSize = fileSize
		}
		if fileSize/blockSize >= maxBlocksPerFile {
			return nil, configErrorf("a file of %v bytes would split into more than %d blocks at block_size %v", fileSize, maxBlocksPerFile, blockSize)
		}
		nFull := int(fileSize / blockSize)
		blocks := make([]float64, 0, nFull+1)
		for range nFull {
			blocks = append(blocks, blockSize)
		}
		// The remainder block also covers files smaller than one block.
		if rem := fileSize - float64(nFull)*blockSize; rem != 0 {
			blocks = append(blocks, rem)
		}

		for b, size := range blocks {
			suffix := fmt.Sprintf("_file_%d_block_%d", f, b)

			transfer := wf.AddTask(Task{
				Name:     entityName("dummytask", cfg.NameSuffix, j) + suffix,
				Kind:     TaskTransfer,
				Flops:    cfg.DummyFlops,
				Cores:    1,
				Memory:   cfg.DummyFlops,
				JobIndex: j,
			})
			block := wf.AddFile(entityName("infile", cfg.NameSuffix, j)+suffix, size)
			wf.AddInput(transfer, block)
			if prevTransfer >= 0 {
				wf.AddDependency(prevTransfer, transfer)
			}

			compute := wf.AddTask(Task{
				Name:     entityName("task", cfg.NameSuffix, j) + suffix,
				Kind:     TaskCompute,
				Flops:    jobFlops * size / fileSize,
				Cores:    1,
				Memory:   jobMem,
				JobIndex: j,
			})
			wf.AddDependency(transfer, compute)
			if prevCompute >= 0 {
				wf.AddDependency(prevCompute, compute)
			}

			prevTransfer = transfer
			prevCompute = compute
		}
	}

	// The job's deliverable. Attached to the last compute task when one
	// exists; a job with no input files has no task to attach it to.
	outfile := wf.AddFile(entityName("outfile", cfg.NameSuffix, j), 0)
	if prevCompute >= 0 {
		wf.AddOutput(prevCompute, outfile)
	}

	return &JobSpecification{
		JobID:      entityName("job", cfg.NameSuffix, j),
		Cores:      1,
		TotalFlops: jobFlops,
		TotalMem:   jobMem,
		Outfile:    outfile,
	}, nil
}
