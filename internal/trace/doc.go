// Package trace decodes strace -f output into typed records.
//
// The decoder is the thin, replaceable front end of the analyzer: it turns
// one textual trace line into a Record carrying pid, global sequence,
// syscall name, raw argument text and return value. Everything downstream
// (classification, ledger, graph) consumes Records and never touches the
// textual format again.
//
// Decoding is strictly sequential. strace emits lines in event order and
// the global sequence numbers stamped here are the sole ordering authority
// for conflict detection, so records must be decoded in file order.
//
// strace interleaving: when a syscall blocks while another thread runs,
// strace splits it into a "<unfinished ...>" half and a "<... resumed>"
// half. The decoder stashes the first half per (pid, syscall) and emits a
// single finished Record when the resume line arrives, stamped with the
// sequence of the resume point (that is when the result became visible).
package trace
