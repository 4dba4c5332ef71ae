package graph

import (
	"errors"
	"fmt"
)

// CycleError reports a dependency cycle among processes. Construction
// orients every edge from a lower global sequence to a higher one and
// deduplicates per process pair, so a cycle signals a logic defect, not a
// property of the input trace. It is surfaced as a hard failure.
type CycleError struct {
	// Remaining lists the pids that could not be scheduled, in node order.
	Remaining []int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %d process(es) unschedulable: %v", len(e.Remaining), e.Remaining)
}

// IsCycleError reports whether err is (or wraps) a CycleError.
func IsCycleError(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
