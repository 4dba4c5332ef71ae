package op

// Process is one pid/tid observed in the trace, with its operations in
// trace order. Mutated only by the process builder while the trace is
// being consumed; treated as immutable once analysis completes.
type Process struct {
	// ID is the process/thread identifier as it appears in the log.
	ID int `json:"id"`

	// Ops is the ordered operation log for this process. Insertion order
	// equals trace order for this pid.
	Ops []Operation `json:"ops"`
}

// Append adds an operation to the end of the process log.
func (p *Process) Append(o Operation) {
	p.Ops = append(p.Ops, o)
}
