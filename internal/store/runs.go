package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses recorded in pipeline_runs.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run is the durable record of one pipeline stage execution. Runs are purely
// observational; the refresh predicates never consult them.
type Run struct {
	ID          uuid.UUID  `db:"id"`
	Stage       string     `db:"stage"`
	Status      string     `db:"status"`
	Processed   int        `db:"processed"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// StartRun records the beginning of a pipeline stage and returns its ID.
func (s *Store) StartRun(ctx context.Context, stage string) (uuid.UUID, error) {
	id := uuid.New()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs (id, stage, status, processed, started_at) VALUES (?, ?, ?, 0, ?)`,
		id.String(), stage, RunRunning, s.now().UTC(),
	); err != nil {
		return uuid.Nil, fmt.Errorf("store: start run for %s: %w", stage, err)
	}
	return id, nil
}

// CompleteRun finalizes a stage run with its status and processed count.
func (s *Store) CompleteRun(ctx context.Context, id uuid.UUID, status string, processed int) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE pipeline_runs SET status = ?, processed = ?, completed_at = ? WHERE id = ?`,
		status, processed, s.now().UTC(), id.String(),
	); err != nil {
		return fmt.Errorf("store: complete run %s: %w", id, err)
	}
	return nil
}

// GetRun retrieves a stage run by ID. Returns nil without error when the ID
// is unknown.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var row struct {
		ID          string     `db:"id"`
		Stage       string     `db:"stage"`
		Status      string     `db:"status"`
		Processed   int        `db:"processed"`
		StartedAt   time.Time  `db:"started_at"`
		CompletedAt *time.Time `db:"completed_at"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT id, stage, status, processed, started_at, completed_at FROM pipeline_runs WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run %s: %w", id, err)
	}
	parsed, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("store: bad run id %q: %w", row.ID, err)
	}
	return &Run{
		ID:          parsed,
		Stage:       row.Stage,
		Status:      row.Status,
		Processed:   row.Processed,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
	}, nil
}
