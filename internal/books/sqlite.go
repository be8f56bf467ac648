package books

import (
	"context"
	"database/sql"
	"fmt"

	"shelfscan/pkg/models"
)

// SQLiteStore is the embedded engine. All statements go through the single
// shared *sql.DB connection, which serializes concurrent writers.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.BookRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
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

func (s *SQLiteStore) CreateMany(ctx context.Context, recs []models.BookRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %v", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, author, year, cover_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert: %v", ErrWriteFailed, err)
	}
	defer stmt.Close()

	for _, b := range recs {
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, b.Author, b.Year, b.CoverURL, b.AddedAt); err != nil {
			return 0, fmt.Errorf("%w: insert %s: %v", ErrWriteFailed, b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}
	return len(recs), nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, patch models.BookPatch) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: begin tx: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	var old models.BookRecord
	row := tx.QueryRowContext(ctx, `
		SELECT id, title, author, year, cover_url, added_at
		FROM books
		WHERE id = ?
	`, id)
	if err := row.Scan(&old.ID, &old.Title, &old.Author, &old.Year, &old.CoverURL, &old.AddedAt); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("%w: load for update: %v", ErrStoreUnavailable, err)
	}

	merged := models.Merge(old, patch)
	if _, err := tx.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, year = ?, cover_url = ?
		WHERE id = ?
	`, merged.Title, merged.Author, merged.Year, merged.CoverURL, id); err != nil {
		return false, fmt.Errorf("%w: update %s: %v", ErrWriteFailed, id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit update: %v", ErrWriteFailed, err)
	}
	return true, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete %s: %v", ErrWriteFailed, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected: %v", ErrWriteFailed, err)
	}
	return n > 0, nil
}
