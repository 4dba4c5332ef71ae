// Package store persists finished analysis runs to SQLite.
//
// The core analyzer defines no on-disk format of its own; this package is
// the caller-side serialization used by the export command. A run row
// plus per-run processes, operations, edges, schedule batches and path
// tables give downstream tooling a queryable view of one analysis without
// re-parsing the trace.
//
// SQLite is opened in WAL mode with a single writer connection; writes
// for one run happen inside a single transaction so a run is either fully
// present or absent.
package store
