package analyze

import (
	"github.com/roach88/untangle/internal/graph"
	"github.com/roach88/untangle/internal/op"
)

// Result is a finished analysis: the per-process operation logs, the
// dependency graph, and the set of resource paths the trace touched.
// Immutable once returned.
type Result struct {
	processes *ProcessSet
	graph     *graph.Graph
	paths     []string
}

// Processes returns every observed process in first-seen order.
func (r *Result) Processes() []*op.Process {
	return r.processes.All()
}

// Process returns the process for pid, if the trace mentioned it.
func (r *Result) Process(pid int) (*op.Process, bool) {
	return r.processes.Get(pid)
}

// Graph returns the dependency DAG. The graph is immutable; drain it
// through a Scheduler.
func (r *Result) Graph() *graph.Graph {
	return r.graph
}

// NewScheduler returns a fresh available-set scheduler over the graph.
// Each scheduler drains independently.
func (r *Result) NewScheduler() *graph.Scheduler {
	return graph.NewScheduler(r.graph)
}

// ExistingFiles returns the distinct resource paths touched anywhere in
// the trace, in first-seen order. Paths that only ever saw failed
// accesses are included. The result is identical before and after
// draining any scheduler.
func (r *Result) ExistingFiles() []string {
	return r.paths
}
