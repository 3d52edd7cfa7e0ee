package services

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/dto"
)

// EntryReaderSvc defines read operations for entries
type EntryReaderSvc interface {
	GetEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)
	ListEntriesByBook(ctx context.Context, bookID string) ([]domain.Entry, error)
}

// EntryWriterSvc defines write operations for entries.
//
// Create and Update report rateFellBack=true when the rate provider was
// unavailable and the entry was stored with a 1.0 conversion rate; this is an
// advisory warning, never an error.
type EntryWriterSvc interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (entry *domain.Entry, rateFellBack bool, err error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (entry *domain.Entry, rateFellBack bool, err error)
	DeleteEntry(ctx context.Context, entryID string) error

	// RepairEntry persists freshly reconciled normalized fields for one
	// entry. This is the only path that writes a repaired value; the
	// aggregation read path never mutates.
	RepairEntry(ctx context.Context, entryID string) (*domain.Entry, error)
}

// EntrySvcFacade combines all entry-related service interfaces
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
