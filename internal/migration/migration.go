package migration

import (
	"context"
	"fmt"

	"evalytics/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every statement is
// idempotent, so running it against an up-to-date schema is a no-op.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		name string
		fn   func(context.Context, *sqlx.DB) error
	}{
		{"evaluation_cycles table", r.createCyclesTable},
		{"evaluation_scores table", r.createScoresTable},
		{"item_responses table", r.createItemResponsesTable},
		{"analysis_reports table", r.createReportsTable},
		{"indexes", r.createIndexes},
	}
	for _, step := range steps {
		if err := step.fn(ctx, db); err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to create %s", step.name), err)
		}
	}
	return nil
}

func (r *MigrationRunner) createCyclesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS evaluation_cycles (
			id TEXT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			starts_at TIMESTAMP WITH TIME ZONE,
			ends_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createScoresTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS evaluation_scores (
			id TEXT PRIMARY KEY,
			cycle_id TEXT NOT NULL REFERENCES evaluation_cycles(id) ON DELETE CASCADE,
			employee_id TEXT NOT NULL,
			segment VARCHAR(255) NOT NULL DEFAULT '',
			dimension VARCHAR(255) NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createItemResponsesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS item_responses (
			cycle_id TEXT NOT NULL REFERENCES evaluation_cycles(id) ON DELETE CASCADE,
			instrument_id TEXT NOT NULL DEFAULT '',
			item_code VARCHAR(100) NOT NULL,
			respondent_id TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (cycle_id, instrument_id, item_code, respondent_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createReportsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_reports (
			id TEXT PRIMARY KEY,
			cycle_id TEXT NOT NULL REFERENCES evaluation_cycles(id) ON DELETE CASCADE,
			generated_at TIMESTAMP WITH TIME ZONE NOT NULL,
			employee_count INTEGER NOT NULL DEFAULT 0,
			overall_mean DOUBLE PRECISION NOT NULL DEFAULT 0,
			input_hash VARCHAR(64) NOT NULL DEFAULT '',
			payload JSONB NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_scores_cycle ON evaluation_scores(cycle_id)",
		"CREATE INDEX IF NOT EXISTS idx_scores_cycle_employee ON evaluation_scores(cycle_id, employee_id)",
		"CREATE INDEX IF NOT EXISTS idx_item_responses_instrument ON item_responses(cycle_id, instrument_id)",
		"CREATE INDEX IF NOT EXISTS idx_reports_cycle_generated ON analysis_reports(cycle_id, generated_at DESC)",
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
