package repositories

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// EntryRepository defines the persistence operations for Entries.
type EntryRepository interface {
	SaveEntry(ctx context.Context, entry domain.Entry) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)
	FindEntriesByBookID(ctx context.Context, bookID string) ([]domain.Entry, error)
	UpdateEntry(ctx context.Context, entry domain.Entry) error
	DeleteEntry(ctx context.Context, entryID string) error
}
