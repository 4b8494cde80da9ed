// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

import (
	"github.com/gammazero/deque"
)

// ControlEdge orders two tasks without a data dependency: the source must
// complete before the target starts. The ordering is simulated by an
// external engine, not enforced here.
type ControlEdge struct {
	From TaskID
	To   TaskID
}

// Workflow is an arena of tasks and files plus the control-edge relation
// between tasks. Entities are addressed by the opaque handles returned at
// creation, which avoids pointer cycles between tasks and keeps ownership
// with the arena.
//
// Builders only ever add edges from earlier-created tasks to later-created
// ones, so a generated workflow is acyclic by construction. [Workflow.Validate]
// checks the property for edges added by hand.
//
// A Workflow is not safe for concurrent use while under construction. Once a
// generation pass returns it, nothing in this package mutates it again.
type Workflow struct {
	tasks []*Task
	files []*File
	edges []ControlEdge
}

// NewWorkflow returns an empty workflow arena.
func NewWorkflow() *Workflow {
	return &Workflow{}
}

// AddFile registers a file with the given name and size and returns its
// handle. Names are not required to be unique; handles are the identity.
func (wf *Workflow) AddFile(name string, sizeBytes float64) FileID {
	id := FileID(len(wf.files))
	wf.files = append(wf.files, &File{ID: id, Name: name, SizeBytes: sizeBytes})
	return id
}

// AddTask registers a task and returns its handle. The ID field of the
// argument is ignored and assigned by the arena.
func (wf *Workflow) AddTask(t Task) TaskID {
	t.ID = TaskID(len(wf.tasks))
	wf.tasks = append(wf.tasks, &t)
	return t.ID
}

// AddInput appends file f to task t's inputs.
func (wf *Workflow) AddInput(t TaskID, f FileID) {
	task := wf.Task(t)
	task.InputFiles = append(task.InputFiles, wf.File(f).ID)
}

// AddOutput appends file f to task t's outputs.
func (wf *Workflow) AddOutput(t TaskID, f FileID) {
	task := wf.Task(t)
	task.OutputFiles = append(task.OutputFiles, wf.File(f).ID)
}

// AddDependency records a control edge from one task to another and mirrors
// it in the target's predecessor list.
func (wf *Workflow) AddDependency(from, to TaskID) {
	src := wf.Task(from)
	dst := wf.Task(to)
	wf.edges = append(wf.edges, ControlEdge{From: src.ID, To: dst.ID})
	dst.Predecessors = append(dst.Predecessors, src.ID)
}

// Task resolves a handle. The handle must have been issued by this workflow.
func (wf *Workflow) Task(id TaskID) *Task {
	if id < 0 || int(id) >= len(wf.tasks) {
		panic("task handle out of range")
	}
	return wf.tasks[id]
}

// File resolves a handle. The handle must have been issued by this workflow.
func (wf *Workflow) File(id FileID) *File {
	if id < 0 || int(id) >= len(wf.files) {
		panic("file handle out of range")
	}
	return wf.files[id]
}

// Tasks returns the workflow's tasks in creation order. The returned slice
// is the arena's backing store and must not be modified.
func (wf *Workflow) Tasks() []*Task {
	return wf.tasks
}

// Files returns the workflow's files in creation order. The returned slice
// is the arena's backing store and must not be modified.
func (wf *Workflow) Files() []*File {
	return wf.files
}

// ControlEdges returns the control-edge relation in insertion order. The
// returned slice is the arena's backing store and must not be modified.
func (wf *Workflow) ControlEdges() []ControlEdge {
	return wf.edges
}

// TopologicalOrder returns every task handle in an order consistent with the
// control-edge relation, or an error if the edges form a cycle. The result
// is deterministic for a given construction sequence.
func (wf *Workflow) TopologicalOrder() ([]TaskID, error) {
	indegree := make([]int, len(wf.tasks))
	successors := make([][]TaskID, len(wf.tasks))
	for _, e := range wf.edges {
		indegree[e.To]++
		successors[e.From] = append(successors[e.From], e.To)
	}

	var ready deque.Deque[TaskID]
	for id := range wf.tasks {
		if indegree[id] == 0 {
			ready.PushBack(TaskID(id))
		}
	}

	order := make([]TaskID, 0, len(wf.tasks))
	for ready.Len() > 0 {
		id := ready.PopFront()
		order = append(order, id)
		for _, s := range successors[id] {
			indegree[s]--
			if indegree[s] == 0 {
				ready.PushBack(s)
			}
		}
	}
	if len(order) != len(wf.tasks) {
		return nil, configErrorf("control edges contain a cycle among %d tasks", len(wf.tasks)-len(order))
	}
	return order, nil
}

// Validate checks that the control-edge relation is acyclic.
func (wf *Workflow) Validate() error {
	_, err := wf.TopologicalOrder()
	return err
}
