package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrations are applied in order exactly once; the schema_migrations table
// tracks which versions a database has already seen.
var migrations = []struct {
	version    int
	statements []string
}{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				email TEXT,
				bio TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE user_time_intervals (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				week_day INTEGER NOT NULL CHECK (week_day BETWEEN 0 AND 6),
				time_start_in_minutes INTEGER NOT NULL,
				time_end_in_minutes INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE (user_id, week_day),
				CHECK (time_start_in_minutes < time_end_in_minutes)
			)`,
			`CREATE TABLE bookings (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				date TEXT NOT NULL,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				observations TEXT,
				created_at TEXT NOT NULL,
				UNIQUE (user_id, date)
			)`,
			`CREATE INDEX idx_bookings_user_date ON bookings(user_id, date)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`CREATE TABLE calendar_connections (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
				provider TEXT NOT NULL,
				access_token TEXT NOT NULL,
				refresh_token TEXT NOT NULL,
				token_expiry TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
}

// Migrate brings the database schema up to date, applying pending versions
// inside individual transactions.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create migration table: %w", err)
	}

	for _, migration := range migrations {
		applied, err := p.migrationApplied(ctx, migration.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = p.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, statement := range migration.statements {
				if _, err := tx.Exec(statement); err != nil {
					return fmt.Errorf("sqlite: migration %d: %w", migration.version, err)
				}
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				migration.version,
				time.Now().UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("sqlite: record migration %d: %w", migration.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Pool) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := p.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: check migration %d: %w", version, err)
	}
	return count > 0, nil
}
