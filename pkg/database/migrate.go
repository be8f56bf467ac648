package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Both engines expose the same logical relation. added_at is epoch millis;
// BIGINT keeps it inside a portable 64-bit signed range on both.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT '',
  cover_url TEXT NOT NULL DEFAULT '',
  added_at INTEGER NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT '',
  cover_url TEXT NOT NULL DEFAULT '',
  added_at BIGINT NOT NULL
);
`

// MigrateSQLite creates the books relation if absent. Safe to run on every
// startup.
func MigrateSQLite(db *sql.DB) error {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}
