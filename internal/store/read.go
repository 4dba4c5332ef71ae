package store

import (
	"context"
	"fmt"
)

// RunSummary is the runs-table view of one stored analysis.
type RunSummary struct {
	ID           string
	TraceName    string
	ProcessCount int
	EdgeCount    int
	PathCount    int
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trace_name, process_count, edge_count, path_count
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.TraceName, &r.ProcessCount, &r.EdgeCount, &r.PathCount); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ReadBatches reconstructs the stored schedule for a run, batches in
// order, pids within a batch in stored (first-seen) order.
func (s *Store) ReadBatches(ctx context.Context, runID string) ([][]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_index, pid FROM batches
		WHERE run_id = ? ORDER BY batch_index, rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read batches: %w", err)
	}
	defer rows.Close()

	var batches [][]int
	for rows.Next() {
		var idx, pid int
		if err := rows.Scan(&idx, &pid); err != nil {
			return nil, fmt.Errorf("read batches: %w", err)
		}
		for len(batches) <= idx {
			batches = append(batches, nil)
		}
		batches[idx] = append(batches[idx], pid)
	}
	return batches, rows.Err()
}

// ReadEdges returns a run's dependency edges as (from, to) pid pairs.
func (s *Store) ReadEdges(ctx context.Context, runID string) ([][2]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_pid, to_pid FROM edges
		WHERE run_id = ? ORDER BY from_pid, to_pid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	defer rows.Close()

	var edges [][2]int
	for rows.Next() {
		var from, to int
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("read edges: %w", err)
		}
		edges = append(edges, [2]int{from, to})
	}
	return edges, rows.Err()
}
