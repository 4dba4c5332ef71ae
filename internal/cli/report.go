package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/untangle/internal/analyze"
)

// OperationView is the JSON projection of one classified operation.
type OperationView struct {
	Seq    int64  `json:"seq"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Dest   string `json:"dest,omitempty"`
	Mode   string `json:"mode"`
	OK     bool   `json:"ok"`
}

// ProcessView is the JSON projection of one process log.
type ProcessView struct {
	PID int             `json:"pid"`
	Ops []OperationView `json:"ops"`
}

// EdgeView is one dependency edge.
type EdgeView struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// AnalysisReport is the full projection of an analysis result, shared by
// the analyze command's JSON output and the golden report tests.
type AnalysisReport struct {
	Processes []ProcessView `json:"processes"`
	Edges     []EdgeView    `json:"edges"`
	Batches   [][]int       `json:"batches"`
	Paths     []string      `json:"paths"`
}

// BuildReport projects a result into its report form. Deterministic:
// processes and paths in first-seen order, edges in node order.
func BuildReport(res *analyze.Result) (*AnalysisReport, error) {
	report := &AnalysisReport{Paths: res.ExistingFiles()}

	for _, p := range res.Processes() {
		view := ProcessView{PID: p.ID}
		for _, o := range p.Ops {
			view.Ops = append(view.Ops, OperationView{
				Seq:    o.Seq,
				Kind:   o.Kind.String(),
				Target: o.Target,
				Dest:   o.Dest,
				Mode:   o.Mode.String(),
				OK:     o.OK,
			})
		}
		report.Processes = append(report.Processes, view)
	}

	g := res.Graph()
	for _, from := range g.Nodes() {
		for _, to := range g.Successors(from) {
			report.Edges = append(report.Edges, EdgeView{From: from, To: to})
		}
	}

	batches, err := res.NewScheduler().Drain()
	if err != nil {
		return nil, err
	}
	report.Batches = batches

	return report, nil
}

// String renders the report as the human-readable text format.
func (r *AnalysisReport) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "processes: %d, edges: %d, paths: %d\n",
		len(r.Processes), len(r.Edges), len(r.Paths))

	for _, p := range r.Processes {
		fmt.Fprintf(&b, "\npid %d (%d ops)\n", p.PID, len(p.Ops))
		for _, o := range p.Ops {
			result := "ok"
			if !o.OK {
				result = "err"
			}
			if o.Dest != "" {
				fmt.Fprintf(&b, "  %6d %s %s -> %s [%s, %s]\n", o.Seq, o.Kind, o.Target, o.Dest, o.Mode, result)
			} else if o.Target != "" {
				fmt.Fprintf(&b, "  %6d %s %s [%s, %s]\n", o.Seq, o.Kind, o.Target, o.Mode, result)
			} else {
				fmt.Fprintf(&b, "  %6d %s [%s, %s]\n", o.Seq, o.Kind, o.Mode, result)
			}
		}
	}

	if len(r.Edges) > 0 {
		fmt.Fprintf(&b, "\nedges:\n")
		for _, e := range r.Edges {
			fmt.Fprintf(&b, "  %d -> %d\n", e.From, e.To)
		}
	}

	fmt.Fprintf(&b, "\nschedule:\n")
	for i, batch := range r.Batches {
		fmt.Fprintf(&b, "  batch %d: %v\n", i, batch)
	}

	return strings.TrimRight(b.String(), "\n")
}
