package trace

// Record is one decoded trace line: the already-tokenized form of a
// syscall the rest of the analyzer consumes.
type Record struct {
	// PID is the process/thread id prefix of the line (strace -f).
	PID int `json:"pid"`

	// Seq is the global logical sequence stamped at decode time.
	Seq int64 `json:"seq"`

	// Name is the syscall name, e.g. "openat".
	Name string `json:"name"`

	// Args is the raw argument text between the parentheses. The
	// classifier extracts what it needs; the decoder does not interpret
	// arguments beyond reassembling split calls.
	Args string `json:"args"`

	// Ret is the numeric return value. Zero when the return was "?"
	// (process killed mid-call).
	Ret int64 `json:"ret"`

	// OK reports whether the call succeeded (return value >= 0 and known).
	OK bool `json:"ok"`

	// Errno holds the errno tag of a failed call ("ENOENT"), empty on
	// success.
	Errno string `json:"errno,omitempty"`

	// LineNo is the 1-based input line this record was decoded from,
	// kept for diagnostics.
	LineNo int `json:"line_no"`
}
