package books

import (
	"context"
	"errors"

	"shelfscan/pkg/models"
)

// Store is the one contract both storage engines implement. Callers must
// not be able to tell which engine is behind it.
type Store interface {
	// ListAll returns every record ordered by added_at descending, or
	// ErrStoreUnavailable. Never a partial result.
	ListAll(ctx context.Context) ([]models.BookRecord, error)

	// CreateMany writes the whole batch inside one transaction. On any
	// failure the batch is rolled back and ErrWriteFailed is returned with
	// zero side effects.
	CreateMany(ctx context.Context, recs []models.BookRecord) (int, error)

	// Update coalesce-merges the patch into the stored record. A missing id
	// is not an error; it reports false.
	Update(ctx context.Context, id string, patch models.BookPatch) (bool, error)

	// Delete reports false, nil for a missing id.
	Delete(ctx context.Context, id string) (bool, error)
}

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrWriteFailed      = errors.New("write failed, batch rolled back")
)
