package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrationStep is one ordered schema change. Steps are compiled into the
// binary and applied exactly once, tracked in schema_migrations.
type migrationStep struct {
	Version     string
	Description string
	SQL         string
}

var migrationSteps = []migrationStep{
	{
		Version:     "001",
		Description: "create credentials table",
		SQL: `
			CREATE TABLE IF NOT EXISTS credentials (
				account       TEXT PRIMARY KEY,
				password_hash TEXT NOT NULL CHECK (length(password_hash) > 0),
				nickname      TEXT NOT NULL DEFAULT '',
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			)
		`,
	},
	{
		Version:     "002",
		Description: "create snapshots table",
		SQL: `
			CREATE TABLE IF NOT EXISTS snapshots (
				namespace  TEXT PRIMARY KEY CHECK (length(namespace) > 0),
				payload    BLOB NOT NULL,
				updated_at TEXT NOT NULL
			)
		`,
	},
}

// Migrate applies all pending schema migrations in order, each inside its own
// transaction. It is safe to call on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version      TEXT PRIMARY KEY,
			description  TEXT NOT NULL,
			applied_at   TEXT NOT NULL,
			execution_ms INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("sqlite: initialize schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("sqlite: read applied migrations: %w", err)
	}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("sqlite: scan applied migration: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("sqlite: read applied migrations: %w", err)
	}
	rows.Close()

	for _, step := range migrationSteps {
		if applied[step.Version] {
			continue
		}
		started := time.Now()
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(step.SQL); err != nil {
				return fmt.Errorf("sqlite: migration %s (%s): %w", step.Version, step.Description, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, description, applied_at, execution_ms) VALUES (?, ?, ?, ?)",
				step.Version,
				step.Description,
				started.UTC().Format(time.RFC3339),
				time.Since(started).Milliseconds(),
			)
			if err != nil {
				return fmt.Errorf("sqlite: record migration %s: %w", step.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
