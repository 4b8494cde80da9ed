// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

// BuildCopyWorkflow appends one compute task per job to wf, modeling jobs
// that copy their whole input before computing. Each task is named after its
// job, requests the job's sampled cores, flops, and memory, reads the job's
// assigned input files, and writes the job's output file. Copy jobs have no
// control edges between them; any ordering comes from the submission
// schedule.
//
// Assign input files before building, otherwise the tasks read nothing.
func BuildCopyWorkflow(wf *Workflow, jobs []*JobSpecification) {
	if wf == nil {
		panic("workflow may not be nil")
	}
	for j, job := range jobs {
		task := wf.AddTask(Task{
			Name:     job.JobID,
			Kind:     TaskCompute,
			Flops:    job.TotalFlops,
			Cores:    job.Cores,
			Memory:   job.TotalMem,
			JobIndex: j,
		})
		for _, f := range job.Infiles {
			wf.AddInput(task, f)
		}
		wf.AddOutput(task, job.Outfile)
	}
}
