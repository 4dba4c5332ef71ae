package analyze

import (
	"path"
	"strconv"
	"strings"

	"github.com/roach88/untangle/internal/config"
	"github.com/roach88/untangle/internal/op"
	"github.com/roach88/untangle/internal/trace"
)

// Classifier maps decoded records to typed operations.
//
// It owns the per-process descriptor tables: open inserts, close removes,
// dup and fcntl(F_DUPFD*) copy, everything else reads. Tables are keyed
// by the issuing pid, so a descriptor number is only ever resolved
// against the process that the record belongs to.
//
// A read/write/close referencing a descriptor with no known origin (not
// opened inside the observed trace window, e.g. inherited from an
// untraced parent) gets an "<unresolved:fd=N>" target and is excluded
// from conflict analysis downstream. Resolving it to a guessed path would
// manufacture dependency edges the trace cannot justify.
type Classifier struct {
	profile config.Profile
	tables  map[int]map[int]string // pid -> fd -> path
}

// NewClassifier creates a classifier with empty descriptor tables.
func NewClassifier(profile config.Profile) *Classifier {
	return &Classifier{
		profile: profile,
		tables:  make(map[int]map[int]string),
	}
}

// Classify produces the operation for one record and updates the issuing
// process's descriptor table. Every record classifies to something; the
// fallback is a KindOther/metadata operation that downstream stages keep
// in the process log but never ledger.
func (c *Classifier) Classify(rec *trace.Record) op.Operation {
	o := op.Operation{
		Seq:  rec.Seq,
		Kind: op.KindOther,
		Mode: op.ModeMetadata,
		FD:   -1,
		OK:   rec.OK,
	}

	args := splitArgs(rec.Args)

	switch rec.Name {
	case "open", "creat":
		c.classifyOpen(rec, args, &o)

	case "openat":
		c.classifyOpenAt(rec, args, &o)

	case "close":
		o.Kind = op.KindClose
		c.resolveFD(rec, args, 0, &o)
		if rec.OK && o.FD >= 0 {
			delete(c.table(rec.PID), o.FD)
		}

	case "read", "pread", "pread64", "readv":
		o.Kind = op.KindRead
		o.Mode = op.ModeRead
		c.resolveFD(rec, args, 0, &o)

	case "write", "pwrite", "pwrite64", "writev":
		c.classifyWrite(rec, args, &o)

	case "mkdir":
		o.Kind = op.KindMkdir
		o.Mode = op.ModeCreate
		o.Target = quotedArg(args, 0)

	case "mkdirat":
		o.Kind = op.KindMkdir
		o.Mode = op.ModeCreate
		o.Target = c.resolveAt(rec.PID, args, 0, 0)

	case "rmdir":
		o.Kind = op.KindRmdir
		o.Mode = op.ModeDelete
		o.Target = quotedArg(args, 0)

	case "unlink":
		o.Kind = op.KindUnlink
		o.Mode = op.ModeDelete
		o.Target = quotedArg(args, 0)

	case "unlinkat":
		o.Kind = op.KindUnlink
		if strings.Contains(rec.Args, "AT_REMOVEDIR") {
			o.Kind = op.KindRmdir
		}
		o.Mode = op.ModeDelete
		o.Target = c.resolveAt(rec.PID, args, 0, 0)

	case "rename":
		o.Kind = op.KindRename
		o.Mode = op.ModeReadWrite
		o.Target = quotedArg(args, 0)
		o.Dest = quotedArg(args, 1)

	case "renameat", "renameat2":
		o.Kind = op.KindRename
		o.Mode = op.ModeReadWrite
		o.Target = c.resolveAt(rec.PID, args, 0, 0)
		o.Dest = c.resolveAt(rec.PID, args, 2, 1)

	case "link", "symlink":
		o.Kind = op.KindLink
		o.Mode = op.ModeReadWrite
		o.Target = quotedArg(args, 0)
		o.Dest = quotedArg(args, 1)

	case "stat", "lstat", "statfs":
		o.Kind = op.KindStat
		o.Target = quotedArg(args, 0)

	case "fstat":
		o.Kind = op.KindStat
		c.resolveFD(rec, args, 0, &o)

	case "statx", "newfstatat", "fstatat", "fstatat64":
		o.Kind = op.KindStat
		o.Target = c.resolveAt(rec.PID, args, 0, 0)

	case "truncate":
		o.Kind = op.KindWrite
		o.Mode = op.ModeWrite
		o.Target = quotedArg(args, 0)

	case "ftruncate":
		o.Kind = op.KindWrite
		o.Mode = op.ModeWrite
		c.resolveFD(rec, args, 0, &o)

	case "fcntl", "fcntl64":
		if strings.Contains(rec.Args, "F_DUPFD") {
			c.dup(rec, args, 0, int(rec.Ret))
		}

	case "dup":
		c.dup(rec, args, 0, int(rec.Ret))

	case "dup2", "dup3":
		c.dup(rec, args, 0, int(rec.Ret))

	default:
		// Non-filesystem syscall; kept in the process log, never
		// ledgered.
	}

	return o
}

// classifyOpen handles open(path, flags[, mode]) and creat(path, mode).
func (c *Classifier) classifyOpen(rec *trace.Record, args []string, o *op.Operation) {
	o.Kind = op.KindOpen
	o.Target = quotedArg(args, 0)
	flags := ""
	if rec.Name == "creat" {
		flags = "O_CREAT|O_WRONLY|O_TRUNC"
	} else if len(args) > 1 {
		flags = args[1]
	}
	o.Mode = openMode(flags)
	c.trackOpen(rec, o)
}

// classifyOpenAt handles openat(dirfd, path, flags[, mode]).
func (c *Classifier) classifyOpenAt(rec *trace.Record, args []string, o *op.Operation) {
	o.Kind = op.KindOpen
	o.Target = c.resolveAt(rec.PID, args, 0, 0)
	flags := ""
	if len(args) > 2 {
		flags = args[2]
	}
	o.Mode = openMode(flags)
	c.trackOpen(rec, o)
}

// trackOpen inserts the opened path under the returned descriptor.
// Failed opens insert nothing: the descriptor was never created.
func (c *Classifier) trackOpen(rec *trace.Record, o *op.Operation) {
	if !rec.OK || !o.Resolved() {
		return
	}
	o.FD = int(rec.Ret)
	c.table(rec.PID)[o.FD] = o.Target
}

// classifyWrite handles the write family. Stdio descriptors are terminal
// traffic, not filesystem state; unless the profile tracks them they
// classify as other so they cannot order anything.
func (c *Classifier) classifyWrite(rec *trace.Record, args []string, o *op.Operation) {
	fd, ok := intArg(args, 0)
	if ok && fd <= 2 && !c.profile.TrackStdio {
		return
	}
	o.Kind = op.KindWrite
	o.Mode = op.ModeWrite
	c.resolveFD(rec, args, 0, o)
}

// resolveFD resolves the descriptor at argument position idx against the
// issuing process's table, falling back to the unresolved placeholder.
func (c *Classifier) resolveFD(rec *trace.Record, args []string, idx int, o *op.Operation) {
	fd, ok := intArg(args, idx)
	if !ok {
		return
	}
	o.FD = fd
	if p, found := c.table(rec.PID)[fd]; found {
		o.Target = p
		return
	}
	o.Target = op.UnresolvedTarget(fd)
}

// resolveAt extracts the quotedIdx-th quoted path and resolves it against
// the dirfd argument at dirfdIdx: absolute paths win, AT_FDCWD keeps the
// path as written, a numeric dirfd prefixes the directory the descriptor
// refers to. An unknown dirfd yields the unresolved placeholder.
func (c *Classifier) resolveAt(pid int, args []string, dirfdIdx, quotedIdx int) string {
	p := quotedArg(args, quotedIdx)
	if p == "" || path.IsAbs(p) {
		return p
	}
	if dirfdIdx >= len(args) {
		return p
	}
	dirfd := strings.TrimSpace(args[dirfdIdx])
	if strings.Contains(dirfd, "AT_FDCWD") {
		return p
	}
	n, err := strconv.Atoi(dirfd)
	if err != nil {
		return p
	}
	if dir, ok := c.table(pid)[n]; ok {
		return path.Join(dir, p)
	}
	return op.UnresolvedTarget(n)
}

// dup copies the table entry for the descriptor at argument position idx
// under the returned descriptor.
func (c *Classifier) dup(rec *trace.Record, args []string, idx, newFD int) {
	if !rec.OK {
		return
	}
	fd, ok := intArg(args, idx)
	if !ok {
		return
	}
	if p, found := c.table(rec.PID)[fd]; found {
		c.table(rec.PID)[newFD] = p
	}
}

func (c *Classifier) table(pid int) map[int]string {
	t, ok := c.tables[pid]
	if !ok {
		t = make(map[int]string)
		c.tables[pid] = t
	}
	return t
}

// openMode derives the access mode from open flags. O_CREAT dominates:
// creation is the strongest ordering signal the open can carry.
func openMode(flags string) op.AccessMode {
	switch {
	case strings.Contains(flags, "O_CREAT"):
		return op.ModeCreate
	case strings.Contains(flags, "O_TRUNC"), strings.Contains(flags, "O_WRONLY"):
		return op.ModeWrite
	case strings.Contains(flags, "O_RDWR"):
		return op.ModeReadWrite
	default:
		return op.ModeRead
	}
}

// splitArgs splits raw argument text on top-level commas, respecting
// quotes and bracket nesting so paths and struct dumps stay intact.
func splitArgs(s string) []string {
	var (
		parts   []string
		start   int
		depth   int
		inQuote bool
		escaped bool
	)
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '{' || r == '[' || r == '(':
			depth++
		case r == '}' || r == ']' || r == ')':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" || len(parts) > 0 {
		parts = append(parts, tail)
	}
	return parts
}

// quotedArg returns the n-th quoted string across the argument list.
func quotedArg(args []string, n int) string {
	seen := 0
	for _, a := range args {
		start := strings.IndexByte(a, '"')
		if start < 0 {
			continue
		}
		end := strings.LastIndexByte(a, '"')
		if end <= start {
			continue
		}
		if seen == n {
			return a[start+1 : end]
		}
		seen++
	}
	return ""
}

// intArg parses the argument at position idx as an integer.
func intArg(args []string, idx int) (int, bool) {
	if idx >= len(args) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[idx]))
	if err != nil {
		return 0, false
	}
	return n, true
}
