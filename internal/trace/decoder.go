package trace

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Policy selects how the decoder treats lines it cannot classify into a
// known record shape. The choice is explicit: callers pick one, the
// decoder never mixes the two behaviors.
type Policy int

const (
	// PolicyStrict surfaces a ParseError for any malformed line.
	PolicyStrict Policy = iota

	// PolicyLenient skips malformed lines best-effort, logging each skip
	// at debug level.
	PolicyLenient
)

var (
	// "openat(AT_FDCWD, \"/etc/passwd\", O_RDONLY) = 3"
	callRE = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\((.*)\)\s*=\s*(-?\d+|\?)\s*(.*)$`)

	// "909194 read(3,  <unfinished ...>"
	unfinishedRE = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\((.*)<unfinished \.\.\.>$`)

	// "909194 <... read resumed>\"data\", 4096) = 12"
	resumedRE = regexp.MustCompile(`^<\.\.\. ([a-zA-Z_][a-zA-Z0-9_]*) resumed>\s*(.*)\)\s*=\s*(-?\d+|\?)\s*(.*)$`)
)

// Decoder turns strace -f lines into Records, one line at a time, in
// input order. It owns the logical clock that stamps global sequence
// numbers and the per-(pid, syscall) stash that reassembles calls strace
// split across an unfinished/resumed pair.
type Decoder struct {
	clock   *Clock
	policy  Policy
	pending map[string]string // "pid:syscall" -> stashed argument prefix
	lineNo  int
}

// NewDecoder creates a decoder with the given malformed-line policy.
func NewDecoder(policy Policy) *Decoder {
	return &Decoder{
		clock:   NewClock(),
		policy:  policy,
		pending: make(map[string]string),
	}
}

// Decode consumes the next input line. It returns (nil, nil) when the
// line carries no finished record: signal and exit notices, the
// unfinished half of a split call, and - under PolicyLenient - lines the
// decoder cannot make sense of.
func (d *Decoder) Decode(line string) (*Record, error) {
	d.lineNo++

	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	cut := strings.IndexAny(line, " \t")
	if cut < 0 {
		return nil, d.reject(line, "missing pid prefix (was the trace produced with -f?)")
	}
	pid, err := strconv.Atoi(line[:cut])
	if err != nil {
		return nil, d.reject(line, "missing pid prefix (was the trace produced with -f?)")
	}
	rest := strings.TrimSpace(line[cut+1:])

	// Signal deliveries and exit notices carry no syscall.
	if strings.HasPrefix(rest, "---") || strings.HasPrefix(rest, "+++") {
		return nil, nil
	}

	if strings.HasSuffix(rest, "<unfinished ...>") {
		um := unfinishedRE.FindStringSubmatch(rest)
		if um == nil {
			return nil, d.reject(line, "unrecognized unfinished call shape")
		}
		d.pending[pendingKey(pid, um[1])] = um[2]
		return nil, nil
	}

	if strings.HasPrefix(rest, "<... ") {
		rm := resumedRE.FindStringSubmatch(rest)
		if rm == nil {
			return nil, d.reject(line, "unrecognized resumed call shape")
		}
		name := rm[1]
		key := pendingKey(pid, name)
		prefix, ok := d.pending[key]
		if !ok {
			return nil, d.reject(line, fmt.Sprintf("%s resumed without a matching unfinished call", name))
		}
		delete(d.pending, key)
		return d.finish(pid, name, prefix+rm[2], rm[3], rm[4]), nil
	}

	cm := callRE.FindStringSubmatch(rest)
	if cm == nil {
		return nil, d.reject(line, "unrecognized call shape")
	}
	return d.finish(pid, cm[1], cm[2], cm[3], cm[4]), nil
}

// finish builds the Record for a completed call and stamps its sequence.
func (d *Decoder) finish(pid int, name, args, ret, trailer string) *Record {
	rec := &Record{
		PID:    pid,
		Seq:    d.clock.Next(),
		Name:   name,
		Args:   strings.TrimSpace(args),
		LineNo: d.lineNo,
	}

	if ret == "?" {
		// Process was killed mid-call; the result never became visible.
		rec.OK = false
		return rec
	}

	n, err := strconv.ParseInt(ret, 10, 64)
	if err != nil {
		// Unreachable given the regex, but do not guess a value.
		rec.OK = false
		return rec
	}
	rec.Ret = n
	rec.OK = n >= 0
	if !rec.OK {
		rec.Errno = errnoTag(trailer)
	}
	return rec
}

// reject applies the malformed-line policy.
func (d *Decoder) reject(line, reason string) error {
	if d.policy == PolicyStrict {
		return &ParseError{LineNo: d.lineNo, Line: line, Reason: reason}
	}
	slog.Debug("skipping malformed trace line",
		"line_no", d.lineNo,
		"reason", reason)
	return nil
}

func pendingKey(pid int, name string) string {
	return strconv.Itoa(pid) + ":" + name
}

// errnoTag extracts the errno name from the trailer of a failed call,
// e.g. "ENOENT (No such file or directory)" -> "ENOENT".
func errnoTag(trailer string) string {
	fields := strings.Fields(trailer)
	if len(fields) == 0 {
		return ""
	}
	if fields[0] == strings.ToUpper(fields[0]) {
		return fields[0]
	}
	return ""
}
