// Package analyze turns decoded trace records into per-process operation
// logs, a per-path access ledger, and the process dependency graph.
//
// ARCHITECTURE:
//
// Single-pass pipeline:
// Records flow through classify -> process builder -> ledger in strict
// trace order. Classification is stateful (per-process descriptor tables
// resolve fds to paths), so out-of-order processing would corrupt both fd
// resolution and conflict direction. There is no I/O below the line
// scanner and nothing here blocks.
//
// Record Processing Flow:
//  1. trace.Decoder tokenizes one line into a Record
//  2. Classifier maps the Record to an op.Operation, mutating the issuing
//     process's descriptor table as a side effect
//  3. ProcessSet appends the operation to its pid's log (lazily creating
//     the process on first sight)
//  4. Ledger records the touched path(s); successful resolved accesses
//     append conflict tuples, failed ones only register the path
//  5. graph.Builder cross-references the finished ledger into DAG edges
//
// The analyzer is designed for determinism, not throughput: same input
// bytes, same Result, always.
package analyze
