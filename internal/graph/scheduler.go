package graph

// schedulerState tracks the peeling lifecycle explicitly rather than
// relying on mutation of the underlying graph.
type schedulerState int

const (
	statePending schedulerState = iota
	stateDraining
	stateExhausted
)

// Scheduler drains a Graph by repeated topological peeling.
//
// It is a consuming iterator, not a pure query: each NextBatch call
// commits its batch as "returned" before the next call, so repeated calls
// monotonically drain the graph. The underlying Graph is never mutated;
// the scheduler owns a private copy of the in-degree counters.
//
// Not safe for concurrent callers. The intended shape is a single
// consumer loop; parallelism within one returned batch is the caller's
// business (the scheduler guarantees only that a batch has no internal
// ordering dependency).
type Scheduler struct {
	g        *Graph
	state    schedulerState
	indeg    map[int]int
	returned map[int]bool
	drained  int
}

// NewScheduler creates a scheduler positioned before the first batch.
func NewScheduler(g *Graph) *Scheduler {
	indeg := make(map[int]int, g.NodeCount())
	for _, pid := range g.Nodes() {
		indeg[pid] = g.InDegree(pid)
	}
	return &Scheduler{
		g:        g,
		state:    statePending,
		indeg:    indeg,
		returned: make(map[int]bool, g.NodeCount()),
	}
}

// NextBatch returns every process not yet returned whose predecessors
// have all been returned by prior calls, ordered by first-seen pid. The
// first call returns exactly the zero-in-degree nodes. Once the graph is
// drained it returns an empty batch with no error - that is the caller's
// termination signal.
//
// A non-empty remainder with no eligible node is a CycleError: the
// scheduler never silently discards a process.
func (s *Scheduler) NextBatch() ([]int, error) {
	if s.state == stateExhausted {
		return nil, nil
	}
	s.state = stateDraining

	var batch []int
	for _, pid := range s.g.Nodes() {
		if !s.returned[pid] && s.indeg[pid] == 0 {
			batch = append(batch, pid)
		}
	}

	if len(batch) == 0 {
		if s.drained == s.g.NodeCount() {
			s.state = stateExhausted
			return nil, nil
		}
		var remaining []int
		for _, pid := range s.g.Nodes() {
			if !s.returned[pid] {
				remaining = append(remaining, pid)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}

	// Commit the batch before the next call can observe it.
	for _, pid := range batch {
		s.returned[pid] = true
		s.drained++
		for _, succ := range s.g.Successors(pid) {
			s.indeg[succ]--
		}
	}
	if s.drained == s.g.NodeCount() {
		s.state = stateExhausted
	}
	return batch, nil
}

// Drain runs NextBatch to exhaustion and returns all batches in order.
func (s *Scheduler) Drain() ([][]int, error) {
	var batches [][]int
	for {
		batch, err := s.NextBatch()
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return batches, nil
		}
		batches = append(batches, batch)
	}
}
