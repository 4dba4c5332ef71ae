package graph

import (
	"log/slog"

	"github.com/roach88/untangle/internal/op"
)

// Access is one ledger tuple: a successful, path-resolved touch of a
// resource by a process at a point in the global sequence.
type Access struct {
	PID  int
	Seq  int64
	Mode op.AccessMode
}

// pathHistory is the per-path conflict state the builder carries while
// scanning a path's access list. It tracks, per pid, whether the pid has
// performed a read or a mutation on the path so far, compacting the
// access list to at most one entry per pid.
type pathHistory struct {
	order   []int // pids in path-local first-seen order
	hadRead map[int]bool
	hadMut  map[int]bool
}

func newPathHistory() *pathHistory {
	return &pathHistory{
		hadRead: make(map[int]bool),
		hadMut:  make(map[int]bool),
	}
}

// Builder derives the dependency DAG from per-path access histories.
//
// Feed every path's accesses in global sequence order via AddAccesses
// (order across paths does not matter; order within a path does), then
// call Finish. Processes with no conflicts still become nodes via
// AddProcess so the scheduler returns them in its first batch.
type Builder struct {
	g *Graph
}

// NewBuilder creates a builder with an empty graph.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

// AddProcess registers a pid as a graph node. Call in first-seen order
// before adding accesses so node order matches trace chronology.
func (b *Builder) AddProcess(pid int) {
	b.g.AddNode(pid)
}

// AddAccesses scans one path's access list, in sequence order, and adds
// an edge for the first conflict of every process pair.
//
// The conflict rule: two accesses by distinct processes conflict when at
// least one side mutates (write/read_write/create/delete); metadata-only
// accesses never conflict; the earlier access's process points at the
// later one.
func (b *Builder) AddAccesses(path string, accesses []Access) {
	h := newPathHistory()
	for _, a := range accesses {
		if a.Mode == op.ModeMetadata {
			// Metadata accesses are tracked for existing_files but never
			// order anything.
			continue
		}
		b.conflictScan(path, h, a)
		h.observe(a)
	}
}

// conflictScan pairs the incoming access against every process already
// seen on this path. Pair dedup inside AddEdge makes repeat pairings
// cheap, so the scan is bounded by distinct pids per path.
func (b *Builder) conflictScan(path string, h *pathHistory, a Access) {
	mutating := a.Mode.Mutating()
	for _, earlier := range h.order {
		if earlier == a.PID {
			// Intra-process order is already total via the sequence.
			continue
		}
		conflicts := h.hadMut[earlier] || (mutating && h.hadRead[earlier])
		if !conflicts {
			continue
		}
		if b.g.AddEdge(earlier, a.PID) {
			slog.Debug("dependency edge",
				"path", path,
				"from", earlier,
				"to", a.PID,
				"seq", a.Seq,
				"mode", a.Mode.String())
		}
	}
}

func (h *pathHistory) observe(a Access) {
	if !h.hadRead[a.PID] && !h.hadMut[a.PID] {
		h.order = append(h.order, a.PID)
	}
	if a.Mode.Mutating() {
		h.hadMut[a.PID] = true
	} else {
		h.hadRead[a.PID] = true
	}
}

// Finish validates the built graph and returns it. A CycleError here
// means the construction invariant was violated (an implementation bug,
// not a trace problem) and is surfaced as a hard failure.
func (b *Builder) Finish() (*Graph, error) {
	if err := b.g.Validate(); err != nil {
		return nil, err
	}
	return b.g, nil
}
