// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen_test

import (
	"fmt"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	workgen "github.com/petenewcomb/workgen"
)

// Splits a 2.5 MB input into 1 MB blocks and prints the resulting paired
// transfer and compute chains. Zero-sigma distributions make the pass
// reproducible without choosing a seed.
func ExampleBuildStreamingWorkflow() {
	wf := workgen.NewWorkflow()
	w, err := workgen.BuildStreamingWorkflow(wf, workgen.StreamingConfig{
		NumJobs:        1,
		InfilesPerJob:  1,
		Flops:          workgen.Gaussian(4000, 0),
		Memory:         workgen.Gaussian(2e9, 0),
		InfileSize:     workgen.Gaussian(2.5e6, 0),
		Blockstreaming: true,
		BlockSize:      1e6,
		DummyFlops:     1e-12,
	}, workgen.NewRand(42))
	if err != nil {
		panic(err)
	}

	for _, task := range wf.Tasks() {
		fmt.Printf("%s %s flops=%v\n", task.Kind, task.Name, task.Flops)
	}
	fmt.Printf("%s total flops=%v\n", w.Jobs[0].JobID, w.Jobs[0].TotalFlops)

	// Output:
	// transfer dummytask_0_file_0_block_0 flops=1e-12
	// compute task_0_file_0_block_0 flops=1600
	// transfer dummytask_0_file_0_block_1 flops=1e-12
	// compute task_0_file_0_block_1 flops=1600
	// transfer dummytask_0_file_0_block_2 flops=1e-12
	// compute task_0_file_0_block_2 flops=800
	// job_0 total flops=4000
}
