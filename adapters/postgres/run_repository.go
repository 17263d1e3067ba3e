// Package postgres holds the optional run-audit store. Only operational
// metadata about completed comparisons is recorded; uploaded bytes and result
// rows never leave process memory.
package postgres

import (
	"context"
	"time"

	"dupfinder/internal/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ComparisonRun is the audit record of one completed comparison.
type ComparisonRun struct {
	ID           string    `db:"id" json:"id"`
	FirstFile    string    `db:"first_file" json:"first_file"`
	SecondFile   string    `db:"second_file" json:"second_file"`
	SheetsFirst  int       `db:"sheets_first" json:"sheets_first"`
	SheetsSecond int       `db:"sheets_second" json:"sheets_second"`
	RowsFirst    int       `db:"rows_first" json:"rows_first"`
	RowsSecond   int       `db:"rows_second" json:"rows_second"`
	LookupSize   int       `db:"lookup_size" json:"lookup_size"`
	Matched      int       `db:"matched" json:"matched"`
	DurationMS   int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const runSchema = `
CREATE TABLE IF NOT EXISTS comparison_runs (
	id            UUID PRIMARY KEY,
	first_file    TEXT NOT NULL,
	second_file   TEXT NOT NULL,
	sheets_first  INT NOT NULL,
	sheets_second INT NOT NULL,
	rows_first    INT NOT NULL,
	rows_second   INT NOT NULL,
	lookup_size   INT NOT NULL,
	matched       INT NOT NULL,
	duration_ms   BIGINT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// RunRepository stores comparison-run audit records in PostgreSQL.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository ensures the audit table exists and returns the repository.
func NewRunRepository(db *sqlx.DB) (*RunRepository, error) {
	if _, err := db.Exec(runSchema); err != nil {
		return nil, errors.Wrap(err, "failed to ensure comparison_runs table")
	}
	return &RunRepository{db: db}, nil
}

// Record inserts one audit record. ID and CreatedAt are filled in when unset.
func (r *RunRepository) Record(ctx context.Context, run *ComparisonRun) error {
	if run == nil {
		return errors.InvalidInput("run is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO comparison_runs (
			id, first_file, second_file, sheets_first, sheets_second,
			rows_first, rows_second, lookup_size, matched, duration_ms, created_at
		) VALUES (
			:id, :first_file, :second_file, :sheets_first, :sheets_second,
			:rows_first, :rows_second, :lookup_size, :matched, :duration_ms, :created_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return errors.Wrap(err, "failed to record comparison run")
	}
	return nil
}

// Recent returns the most recent audit records, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]ComparisonRun, error) {
	if limit < 1 {
		limit = 20
	}
	var runs []ComparisonRun
	const query = `SELECT * FROM comparison_runs ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, errors.Wrap(err, "failed to list comparison runs")
	}
	return runs, nil
}
