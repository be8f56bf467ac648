package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelfscan/pkg/models"
)

// PostgresStore is the networked engine. Transactions pin one pooled
// connection for their duration; Rollback after Commit is a no-op, so the
// deferred release always runs.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.BookRecord, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, title, author, year, cover_url, added_at
		FROM books
		ORDER BY added_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list query: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make([]models.BookRecord, 0)
	for rows.Next() {
		var b models.BookRecord
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CoverURL, &b.AddedAt); err != nil {
			return nil, fmt.Errorf("%w: list scan: %v", ErrStoreUnavailable, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows err: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *PostgresStore) CreateMany(ctx context.Context, recs []models.BookRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %v", ErrWriteFailed, err)
	}
	defer tx.Rollback(ctx)

	for _, b := range recs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO books (id, title, author, year, cover_url, added_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, b.ID, b.Title, b.Author, b.Year, b.CoverURL, b.AddedAt); err != nil {
			return 0, fmt.Errorf("%w: insert %s: %v", ErrWriteFailed, b.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}
	return len(recs), nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch models.BookPatch) (bool, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: begin tx: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var old models.BookRecord
	row := tx.QueryRow(ctx, `
		SELECT id, title, author, year, cover_url, added_at
		FROM books
		WHERE id = $1
	`, id)
	if err := row.Scan(&old.ID, &old.Title, &old.Author, &old.Year, &old.CoverURL, &old.AddedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: load for update: %v", ErrStoreUnavailable, err)
	}

	merged := models.Merge(old, patch)
	if _, err := tx.Exec(ctx, `
		UPDATE books SET title = $1, author = $2, year = $3, cover_url = $4
		WHERE id = $5
	`, merged.Title, merged.Author, merged.Year, merged.CoverURL, id); err != nil {
		return false, fmt.Errorf("%w: update %s: %v", ErrWriteFailed, id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("%w: commit update: %v", ErrWriteFailed, err)
	}
	return true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete %s: %v", ErrWriteFailed, id, err)
	}
	return tag.RowsAffected() > 0, nil
}
