// Package graph builds and drains the process dependency DAG.
//
// Nodes are processes (by pid), edges are "must happen before" constraints
// derived from conflicting accesses to the same path. An edge P -> Q means
// P's work must be considered complete before Q may run.
//
// ARCHITECTURE:
//
// Deterministic construction:
// The builder consumes per-path access histories in global sequence order.
// Edge direction always points from the lower-sequence access's process to
// the higher-sequence one, and each unordered process pair carries at most
// one edge (the first conflict wins; later conflicts between the same pair
// are redundant for ordering and are skipped). The dedup is what keeps the
// edge set from growing super-linearly in trace length.
//
// Defensive validation:
// Pair dedup rules out two-node cycles, and the single global sequence
// makes longer cycles a sign of a construction bug rather than a
// legitimate trace state. Finish() and the scheduler both validate
// reachability and fail with a CycleError instead of silently dropping
// nodes.
//
// Draining:
// The Scheduler is a consuming iterator over an immutable Graph: each
// NextBatch call commits one round of topological peeling. The Graph
// itself is never mutated, so a second Scheduler gives an independent
// traversal.
package graph
