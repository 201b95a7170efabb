// Package repository persists batch run history to the sqlite ledger.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/batch"
	"github.com/insurops/motor-renewal/pkg/database"
)

// RunSummary is one row of run history as served to the API.
type RunSummary struct {
	ID         int64      `json:"id"`
	Variant    string     `json:"variant"`
	Total      int        `json:"total_records"`
	Generated  int        `json:"generated"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunRepository stores batch runs and their per-record outcomes.
type RunRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *database.DB, logger *zap.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

// StartRun opens a ledger entry for a batch and returns its id.
func (r *RunRepository) StartRun(ctx context.Context, variant string, total int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO batch_runs (variant, total_records) VALUES (?, ?)",
		variant, total)
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one record's outcome to a run.
func (r *RunRepository) RecordOutcome(ctx context.Context, runID int64, o batch.Outcome) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO record_outcomes (run_id, ordinal, holder_name, policy_no, status, detail, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Ordinal, o.Name, o.PolicyNo, string(o.Status), o.Detail, o.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// FinishRun closes a ledger entry with the final counters.
func (r *RunRepository) FinishRun(ctx context.Context, runID int64, s batch.Summary) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE batch_runs
		SET generated = ?, skipped = ?, failed = ?, finished_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Generated, s.Skipped, s.Failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish batch run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, variant, total_records, generated, skipped, failed, started_at, finished_at
		FROM batch_runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.ID, &run.Variant, &run.Total, &run.Generated,
			&run.Skipped, &run.Failed, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
