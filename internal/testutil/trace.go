// Package testutil provides synthetic strace output construction for
// tests. Builders emit the exact textual shapes the decoder accepts, so
// tests exercise the full pipeline instead of hand-built records.
package testutil

import (
	"fmt"
	"io"
	"strings"
)

// TraceBuilder assembles strace -f style output line by line.
type TraceBuilder struct {
	lines []string
}

// NewTrace creates an empty builder.
func NewTrace() *TraceBuilder {
	return &TraceBuilder{}
}

// Raw appends a line verbatim.
func (b *TraceBuilder) Raw(line string) *TraceBuilder {
	b.lines = append(b.lines, line)
	return b
}

// Open appends an openat call returning fd.
func (b *TraceBuilder) Open(pid int, path, flags string, fd int) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d openat(AT_FDCWD, %q, %s) = %d", pid, path, flags, fd))
}

// OpenErr appends a failed openat call.
func (b *TraceBuilder) OpenErr(pid int, path, flags, errno string) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d openat(AT_FDCWD, %q, %s) = -1 %s (synthetic)", pid, path, flags, errno))
}

// Read appends a read on fd returning n bytes.
func (b *TraceBuilder) Read(pid, fd, n int) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d read(%d, \"x\", %d) = %d", pid, fd, n, n))
}

// Write appends a write on fd of n bytes.
func (b *TraceBuilder) Write(pid, fd, n int) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d write(%d, \"x\", %d) = %d", pid, fd, n, n))
}

// Close appends a close of fd.
func (b *TraceBuilder) Close(pid, fd int) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d close(%d) = 0", pid, fd))
}

// Mkdir appends a mkdir call.
func (b *TraceBuilder) Mkdir(pid int, path string) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d mkdir(%q, 0755) = 0", pid, path))
}

// Unlink appends an unlink call.
func (b *TraceBuilder) Unlink(pid int, path string) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d unlink(%q) = 0", pid, path))
}

// Rename appends a rename call.
func (b *TraceBuilder) Rename(pid int, from, to string) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d rename(%q, %q) = 0", pid, from, to))
}

// Stat appends a stat call.
func (b *TraceBuilder) Stat(pid int, path string) *TraceBuilder {
	return b.Raw(fmt.Sprintf("%d stat(%q, {st_mode=S_IFREG|0644, st_size=128, ...}) = 0", pid, path))
}

// String returns the assembled trace text.
func (b *TraceBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// Reader returns the assembled trace as an io.Reader.
func (b *TraceBuilder) Reader() io.Reader {
	return strings.NewReader(b.String())
}
