package analyze

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/untangle/internal/config"
	"github.com/roach88/untangle/internal/graph"
	"github.com/roach88/untangle/internal/op"
	"github.com/roach88/untangle/internal/trace"
)

// Analyzer runs the full pipeline: decode, classify, build processes and
// ledger, derive the dependency graph. One Analyzer handles one trace;
// create a new one per input.
type Analyzer struct {
	profile config.Profile
}

// New creates an analyzer with the given profile.
func New(profile config.Profile) *Analyzer {
	return &Analyzer{profile: profile}
}

// maxLineSize bounds a single trace line. strace truncates string
// arguments at 32 bytes by default but -s can raise that substantially.
const maxLineSize = 1024 * 1024

// Run consumes the trace and returns the finished analysis. Fails with a
// trace.ParseError under the strict profile, and with a graph.CycleError
// if graph construction ever violates its own invariant.
func (a *Analyzer) Run(r io.Reader) (*Result, error) {
	policy := trace.PolicyLenient
	if a.profile.Strict {
		policy = trace.PolicyStrict
	}

	decoder := trace.NewDecoder(policy)
	classifier := NewClassifier(a.profile)
	processes := NewProcessSet()
	ledger := NewLedger(a.profile.NormalizePaths)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	records := 0
	for scanner.Scan() {
		rec, err := decoder.Decode(scanner.Text())
		if err != nil {
			return nil, err
		}
		if rec == nil || a.profile.Ignored(rec.Name) {
			continue
		}
		records++

		operation := classifier.Classify(rec)
		processes.Record(rec.PID, operation)
		a.ledgerize(ledger, rec.PID, operation)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	g, err := a.buildGraph(processes, ledger)
	if err != nil {
		return nil, err
	}

	slog.Info("analysis complete",
		"records", records,
		"processes", processes.Len(),
		"paths", len(ledger.Paths()),
		"edges", g.EdgeCount())

	return &Result{
		processes: processes,
		graph:     g,
		paths:     ledger.Paths(),
	}, nil
}

// ledgerize feeds one classified operation into the ledger.
//
// Rules, in order:
//   - KindOther never touches the ledger (non-filesystem traffic)
//   - unresolved targets never touch the ledger (no observed origin)
//   - every resolved path is registered for existing_files, success or not
//   - only successful operations append access tuples; a failed call did
//     not observably affect the resource, so it orders nothing
//   - rename/link destinations get their own entry with mode create
func (a *Analyzer) ledgerize(ledger *Ledger, pid int, o op.Operation) {
	if o.Kind == op.KindOther || !o.Resolved() {
		return
	}

	ledger.Touch(o.Target)
	if o.OK {
		ledger.Record(o.Target, graph.Access{PID: pid, Seq: o.Seq, Mode: o.Mode})
	}

	if o.Dest == "" {
		return
	}
	ledger.Touch(o.Dest)
	if o.OK {
		ledger.Record(o.Dest, graph.Access{PID: pid, Seq: o.Seq, Mode: op.ModeCreate})
	}
}

// buildGraph cross-references the ledger into DAG edges.
func (a *Analyzer) buildGraph(processes *ProcessSet, ledger *Ledger) (*graph.Graph, error) {
	builder := graph.NewBuilder()
	for _, p := range processes.All() {
		builder.AddProcess(p.ID)
	}
	for _, path := range ledger.Paths() {
		builder.AddAccesses(path, ledger.Accesses(path))
	}
	return builder.Finish()
}
