package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
	"github.com/fintrackd/fintrack_app/internal/dto"
	"github.com/google/uuid"
)

// entryService provides business logic for entries. Every write that touches
// an amount runs through the normalization engine so the cached normalized
// fields stay consistent with the owning book's locked rate.
type entryService struct {
	BaseService
	entryRepo portsrepo.EntryRepository
	bookRepo  portsrepo.BookRepository
	fx        portssvc.NormalizerSvc
	settings  portssvc.SettingsSvcFacade
	cache     ports.TotalsCache // optional, may be nil
}

// NewEntryService creates a new entryService.
func NewEntryService(
	entryRepo portsrepo.EntryRepository,
	bookRepo portsrepo.BookRepository,
	fx portssvc.NormalizerSvc,
	settings portssvc.SettingsSvcFacade,
	cache ports.TotalsCache,
) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo: entryRepo,
		bookRepo:  bookRepo,
		fx:        fx,
		settings:  settings,
		cache:     cache,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// CreateEntry creates an entry in the owning book's currency and caches its
// normalized amount. A failed rate lookup degrades to the 1.0 fallback and is
// reported via rateFellBack; it never blocks the creation.
func (s *entryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.Entry, bool, error) {
	book, err := s.bookRepo.FindBookByID(ctx, req.BookID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get book %s: %w", req.BookID, err)
	}

	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read default currency: %w", err)
	}

	now := time.Now()
	entryDate := now
	if req.EntryDate != nil {
		entryDate = *req.EntryDate
	}

	entry := domain.Entry{
		EntryID:      uuid.NewString(),
		BookID:       book.BookID,
		Amount:       *req.Amount,
		CurrencyCode: book.CurrencyCode,
		Notes:        req.Notes,
		EntryDate:    entryDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	n, fellBack := s.fx.Normalize(ctx, entry.Amount, entry.CurrencyCode, book, defaultCurrency)
	entry.Normalized = &n

	// Audit-trail snapshot of rates at creation time; best effort only.
	if snapshot, err := s.fx.Snapshot(ctx, entry.CurrencyCode); err != nil {
		s.LogDebug(ctx, "Rate snapshot unavailable at entry creation",
			slog.String("entry_id", entry.EntryID),
			slog.String("error", err.Error()),
		)
	} else {
		entry.HistoricalRates = snapshot.Rates
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		return nil, false, fmt.Errorf("failed to create entry: %w", err)
	}
	s.invalidateTotals(ctx, entry.BookID)

	s.LogInfo(ctx, "Entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("book_id", entry.BookID),
		slog.Float64("amount", entry.Amount),
		slog.Float64("conversion_rate", n.Rate),
		slog.Bool("rate_fell_back", fellBack),
	)
	return &entry, fellBack, nil
}

// GetEntryByID retrieves a specific entry.
func (s *entryService) GetEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntriesByBook retrieves all entries of a book.
func (s *entryService) ListEntriesByBook(ctx context.Context, bookID string) ([]domain.Entry, error) {
	if _, err := s.bookRepo.FindBookByID(ctx, bookID); err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
	}
	entries, err := s.entryRepo.FindEntriesByBookID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for book %s: %w", bookID, err)
	}
	return entries, nil
}

// UpdateEntry updates an entry. An amount change triggers renormalization
// against the owning book's current lock and the current default currency.
func (s *entryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*domain.Entry, bool, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}

	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}

	fellBack := false
	if req.Amount != nil {
		book, err := s.bookRepo.FindBookByID(ctx, entry.BookID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get book %s: %w", entry.BookID, err)
		}
		defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read default currency: %w", err)
		}

		entry.Amount = *req.Amount
		var n domain.Normalization
		n, fellBack = s.fx.Normalize(ctx, entry.Amount, entry.CurrencyCode, book, defaultCurrency)
		entry.Normalized = &n
	}

	entry.LastUpdatedAt = time.Now()
	if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, false, fmt.Errorf("failed to update entry %s: %w", entryID, err)
	}
	s.invalidateTotals(ctx, entry.BookID)

	return entry, fellBack, nil
}

// DeleteEntry removes an entry. The entry is re-read immediately before the
// delete so the "still exists" check holds after any earlier suspension point.
func (s *entryService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}
	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	s.invalidateTotals(ctx, entry.BookID)
	return nil
}

// RepairEntry recomputes and persists the entry's normalized fields. This is
// the explicit counterpart to the auditor's read-only repair: aggregation
// never writes, this does.
func (s *entryService) RepairEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}
	book, err := s.bookRepo.FindBookByID(ctx, entry.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", entry.BookID, err)
	}
	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read default currency: %w", err)
	}

	var n domain.Normalization
	lockRate, hasLock := book.Lock(defaultCurrency)
	switch {
	case entry.CurrencyCode == defaultCurrency:
		n = domain.Normalization{Amount: entry.Amount, Rate: 1.0, CurrencyCode: defaultCurrency}
	case hasLock && entry.CurrencyCode == book.CurrencyCode:
		n = domain.Normalization{Amount: entry.Amount * lockRate, Rate: lockRate, CurrencyCode: defaultCurrency}
	default:
		// Unlike entry creation there is no 1.0 fallback here: overwriting a
		// cache with a guessed rate would destroy information. The repair
		// fails instead.
		rate, err := s.fx.FetchRate(ctx, entry.CurrencyCode, defaultCurrency, book.BookID)
		if err != nil {
			return nil, fmt.Errorf("cannot repair entry %s: %w", entryID, err)
		}
		n = domain.Normalization{Amount: entry.Amount * rate, Rate: rate, CurrencyCode: defaultCurrency}
	}

	entry.Normalized = &n
	entry.LastUpdatedAt = time.Now()
	if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to persist repaired entry %s: %w", entryID, err)
	}
	s.invalidateTotals(ctx, entry.BookID)

	s.LogInfo(ctx, "Entry repaired",
		slog.String("entry_id", entryID),
		slog.Float64("conversion_rate", n.Rate),
	)
	return entry, nil
}

func (s *entryService) invalidateTotals(ctx context.Context, bookID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, bookID, portssvc.AggregateAll); err != nil {
		s.LogWarn(ctx, "Failed to invalidate totals cache", slog.String("book_id", bookID), slog.String("error", err.Error()))
	}
}
