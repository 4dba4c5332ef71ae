package op

import "fmt"

// Kind identifies the filesystem-affecting syscall family an operation
// belongs to. Syscalls outside the tracked families map to KindOther.
type Kind int

const (
	KindOther Kind = iota
	KindOpen
	KindClose
	KindRead
	KindWrite
	KindMkdir
	KindRmdir
	KindUnlink
	KindRename
	KindStat
	KindLink
)

var kindNames = map[Kind]string{
	KindOther:  "other",
	KindOpen:   "open",
	KindClose:  "close",
	KindRead:   "read",
	KindWrite:  "write",
	KindMkdir:  "mkdir",
	KindRmdir:  "rmdir",
	KindUnlink: "unlink",
	KindRename: "rename",
	KindStat:   "stat",
	KindLink:   "link",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AccessMode classifies how an operation touches its target resource.
// The conflict rule in the graph builder is defined purely over modes:
// two accesses to the same path conflict when at least one of them
// mutates (write, read_write, create, delete). ModeMetadata never
// conflicts with anything.
type AccessMode int

const (
	ModeMetadata AccessMode = iota
	ModeRead
	ModeWrite
	ModeReadWrite
	ModeCreate
	ModeDelete
)

var modeNames = map[AccessMode]string{
	ModeMetadata:  "metadata_only",
	ModeRead:      "read",
	ModeWrite:     "write",
	ModeReadWrite: "read_write",
	ModeCreate:    "create",
	ModeDelete:    "delete",
}

func (m AccessMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Mutating reports whether the mode makes the relative order of accesses
// observable. Reads conflict with mutations but not with each other;
// metadata accesses conflict with nothing.
func (m AccessMode) Mutating() bool {
	switch m {
	case ModeWrite, ModeReadWrite, ModeCreate, ModeDelete:
		return true
	}
	return false
}

// Conflicts reports whether an access with mode m at a lower sequence and
// an access with mode later at a higher sequence require their order to
// be preserved.
func (m AccessMode) Conflicts(later AccessMode) bool {
	if m == ModeMetadata || later == ModeMetadata {
		return false
	}
	return m.Mutating() || later.Mutating()
}

// Operation is one filesystem-affecting system call, classified from a
// decoded trace record. Created once by the classifier; immutable after.
type Operation struct {
	// Seq is the global trace sequence of the record this operation was
	// classified from. Strictly increasing across all processes.
	Seq int64 `json:"seq"`

	// Kind is the syscall family.
	Kind Kind `json:"kind"`

	// Target is the resolved path the operation touches. For unresolved
	// descriptors it holds an "<unresolved:fd=N>" placeholder. For rename
	// and link it is the source path; Dest holds the destination.
	Target string `json:"target"`

	// Dest is the destination path of a rename or link, empty otherwise.
	Dest string `json:"dest,omitempty"`

	// Mode is the derived access classification for Target.
	Mode AccessMode `json:"mode"`

	// FD is the descriptor the operation referenced, or -1 when the
	// operation carried a path argument instead. Only meaningful within
	// the owning process and only while the trace is being consumed.
	FD int `json:"fd,omitempty"`

	// OK records whether the syscall succeeded. Failed operations are
	// kept in the process log for fidelity but never feed the ledger's
	// access lists.
	OK bool `json:"ok"`
}

// Resolved reports whether the operation's target is a real path rather
// than an unresolved-descriptor placeholder or empty. Unresolved
// operations are excluded from conflict analysis: the descriptor's origin
// was never observed, so any edge built from it would be a guess.
func (o Operation) Resolved() bool {
	return o.Target != "" && o.Target[0] != '<'
}

// UnresolvedTarget builds the placeholder target for an operation that
// referenced a descriptor with no known origin (e.g. inherited from an
// untraced parent).
func UnresolvedTarget(fd int) string {
	return fmt.Sprintf("<unresolved:fd=%d>", fd)
}

func (o Operation) String() string {
	result := "ok"
	if !o.OK {
		result = "err"
	}
	if o.Dest != "" {
		return fmt.Sprintf("%s(%s -> %s) [%s, %s]", o.Kind, o.Target, o.Dest, o.Mode, result)
	}
	return fmt.Sprintf("%s(%s) [%s, %s]", o.Kind, o.Target, o.Mode, result)
}
