package trace

import (
	"errors"
	"fmt"
)

// ParseError reports a trace line that could not be decoded into a known
// record shape. It carries enough context to diagnose without re-running.
type ParseError struct {
	// LineNo is the 1-based line number of the offending line.
	LineNo int

	// Line is the offending line text.
	Line string

	// Reason describes what was expected and missing.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s: %q", e.LineNo, e.Reason, e.Line)
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
