package database

import (
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the full, ordered schema history of the run ledger.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_batch_runs",
		SQL: `
			CREATE TABLE IF NOT EXISTS batch_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				variant TEXT NOT NULL,
				total_records INTEGER NOT NULL,
				generated INTEGER NOT NULL DEFAULT 0,
				skipped INTEGER NOT NULL DEFAULT 0,
				failed INTEGER NOT NULL DEFAULT 0,
				started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				finished_at DATETIME
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_record_outcomes",
		SQL: `
			CREATE TABLE IF NOT EXISTS record_outcomes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id INTEGER NOT NULL REFERENCES batch_runs(id),
				ordinal INTEGER NOT NULL,
				holder_name TEXT,
				policy_no TEXT,
				status TEXT NOT NULL,
				detail TEXT,
				output_path TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_record_outcomes_run ON record_outcomes(run_id);
		`,
	},
}

// Migrator applies pending ledger migrations.
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Run applies every migration that has not been applied yet.
func (m *Migrator) Run() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}
		if _, err := m.db.Exec(mig.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Name, err)
		}
		if _, err := m.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", mig.Version, mig.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
		}
		m.logger.Info("Applied migration",
			zap.Int("version", mig.Version),
			zap.String("name", mig.Name))
	}
	return nil
}

func (m *Migrator) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
