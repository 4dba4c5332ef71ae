package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/untangle/internal/analyze"
)

// WriteRun persists one finished analysis under a fresh run id, returned
// to the caller. Everything for the run - processes, operations, edges,
// schedule batches, paths - is written in a single transaction.
//
// The schedule batches are produced by draining a fresh scheduler, so the
// stored batches match exactly what a replay driver consuming the same
// graph would observe.
func (s *Store) WriteRun(ctx context.Context, traceName string, res *analyze.Result) (string, error) {
	batches, err := res.NewScheduler().Drain()
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	runID := uuid.NewString()
	g := res.Graph()
	paths := res.ExistingFiles()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, trace_name, process_count, edge_count, path_count)
		VALUES (?, ?, ?, ?, ?)
	`, runID, traceName, g.NodeCount(), g.EdgeCount(), len(paths))
	if err != nil {
		return "", fmt.Errorf("write run row: %w", err)
	}

	for pos, p := range res.Processes() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO processes (run_id, pid, position, op_count)
			VALUES (?, ?, ?, ?)
		`, runID, p.ID, pos, len(p.Ops))
		if err != nil {
			return "", fmt.Errorf("write process %d: %w", p.ID, err)
		}

		for _, o := range p.Ops {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO operations (run_id, pid, seq, kind, target, dest, mode, ok)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, runID, p.ID, o.Seq, o.Kind.String(), o.Target, o.Dest, o.Mode.String(), o.OK)
			if err != nil {
				return "", fmt.Errorf("write operation seq %d: %w", o.Seq, err)
			}
		}
	}

	for _, from := range g.Nodes() {
		for _, to := range g.Successors(from) {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO edges (run_id, from_pid, to_pid) VALUES (?, ?, ?)
			`, runID, from, to)
			if err != nil {
				return "", fmt.Errorf("write edge %d->%d: %w", from, to, err)
			}
		}
	}

	for i, batch := range batches {
		for _, pid := range batch {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO batches (run_id, batch_index, pid) VALUES (?, ?, ?)
			`, runID, i, pid)
			if err != nil {
				return "", fmt.Errorf("write batch %d: %w", i, err)
			}
		}
	}

	for pos, path := range paths {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO paths (run_id, position, path) VALUES (?, ?, ?)
		`, runID, pos, path)
		if err != nil {
			return "", fmt.Errorf("write path %q: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}
	return runID, nil
}
