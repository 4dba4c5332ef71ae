package graph

// pair is an unordered pid pair, normalized low/high. Edge dedup is keyed
// on the unordered pair: once any conflict has ordered two processes,
// later conflicts between them carry no new information.
type pair struct {
	lo, hi int
}

func pairOf(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}

// Graph is the process dependency DAG. Nodes are pids held in an
// index-stable slice (first-seen order); edges are pid pairs in an
// adjacency list. The graph holds no references into operation data.
//
// A finished Graph is immutable: the scheduler keeps its own in-degree
// counters rather than mutating the graph, so the graph stays
// inspectable and re-drainable.
type Graph struct {
	order  []int         // pids in first-seen order
	index  map[int]int   // pid -> position in order
	succ   map[int][]int // pid -> successors, insertion order
	indeg  map[int]int   // pid -> in-degree
	paired map[pair]bool // unordered pairs that already carry an edge
	edges  int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:  make(map[int]int),
		succ:   make(map[int][]int),
		indeg:  make(map[int]int),
		paired: make(map[pair]bool),
	}
}

// AddNode registers a pid. Idempotent; first registration fixes the
// node's position in the deterministic output order.
func (g *Graph) AddNode(pid int) {
	if _, ok := g.index[pid]; ok {
		return
	}
	g.index[pid] = len(g.order)
	g.order = append(g.order, pid)
}

// AddEdge records that `from` must precede `to`. Self-loops are ignored,
// and only the first edge per unordered pid pair is kept. Returns true
// when a new edge was inserted.
func (g *Graph) AddEdge(from, to int) bool {
	if from == to {
		return false
	}
	g.AddNode(from)
	g.AddNode(to)

	p := pairOf(from, to)
	if g.paired[p] {
		return false
	}
	g.paired[p] = true

	g.succ[from] = append(g.succ[from], to)
	g.indeg[to]++
	g.edges++
	return true
}

// Nodes returns the pids in first-seen order. The caller must not modify
// the returned slice.
func (g *Graph) Nodes() []int {
	return g.order
}

// Successors returns the pids that depend on pid, in edge insertion
// order. The caller must not modify the returned slice.
func (g *Graph) Successors(pid int) []int {
	return g.succ[pid]
}

// InDegree returns the number of processes that must precede pid.
func (g *Graph) InDegree(pid int) int {
	return g.indeg[pid]
}

// HasEdge reports whether an edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	for _, s := range g.succ[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NodeCount returns the number of processes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of dependency edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Validate checks that the graph is acyclic by running a full peel on a
// throwaway scheduler. Returns a CycleError on violation.
func (g *Graph) Validate() error {
	s := NewScheduler(g)
	for {
		batch, err := s.NextBatch()
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
	}
}
