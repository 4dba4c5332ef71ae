package analyze

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/untangle/internal/graph"
)

// Ledger is the per-path access history across all processes.
//
// Two separate facts are tracked per path:
//   - the path was touched at all (feeds existing_files; failed accesses
//     count here, they still name the resource)
//   - successful, resolved accesses in sequence order (feeds conflict
//     detection; appends are non-decreasing in seq by construction since
//     input is consumed in trace order)
//
// Paths are NFC-normalized at this boundary when the profile asks for it,
// so byte-different encodings of one path share a history.
type Ledger struct {
	normalize bool
	order     []string
	seen      map[string]bool
	accesses  map[string][]graph.Access
}

// NewLedger creates an empty ledger.
func NewLedger(normalize bool) *Ledger {
	return &Ledger{
		normalize: normalize,
		seen:      make(map[string]bool),
		accesses:  make(map[string][]graph.Access),
	}
}

// Touch registers a path as seen and returns its ledger key.
func (l *Ledger) Touch(path string) string {
	key := l.key(path)
	if !l.seen[key] {
		l.seen[key] = true
		l.order = append(l.order, key)
	}
	return key
}

// Record appends an access tuple to path's history.
func (l *Ledger) Record(path string, a graph.Access) {
	key := l.Touch(path)
	l.accesses[key] = append(l.accesses[key], a)
}

// Paths returns every distinct path in first-seen order. The caller must
// not modify the returned slice.
func (l *Ledger) Paths() []string {
	return l.order
}

// Accesses returns path's ordered access history.
func (l *Ledger) Accesses(path string) []graph.Access {
	return l.accesses[l.key(path)]
}

func (l *Ledger) key(path string) string {
	if l.normalize {
		return norm.NFC.String(path)
	}
	return path
}
