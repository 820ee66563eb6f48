package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; the schema version is kept in PRAGMA user_version.
var migrations = []string{
	// 1: query log
	`CREATE TABLE IF NOT EXISTS query_log (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		technology TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		element TEXT,
		site TEXT,
		kpis TEXT NOT NULL DEFAULT '[]',
		row_limit INTEGER DEFAULT 0,
		outcome TEXT NOT NULL,
		status_code INTEGER DEFAULT 0,
		error TEXT,
		duration_ms INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_query_log_timestamp ON query_log(timestamp);`,

	// 2: record counts and outcome lookups
	`ALTER TABLE query_log ADD COLUMN record_count INTEGER DEFAULT 0;
	CREATE INDEX IF NOT EXISTS idx_query_log_outcome ON query_log(outcome);`,
}

// SchemaVersion returns the number of migrations applied to the file.
func (db *DB) SchemaVersion() (int, error) {
	return db.schemaVersion(context.Background())
}

func (db *DB) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// migrate applies every migration newer than the stored schema version.
func (db *DB) migrate(ctx context.Context) error {
	version, err := db.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}

		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
