package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
)

// aggregationService sums entries into income/expense/balance totals in the
// user's current default currency. It only consumes reconciled effective
// amounts; it never derives a rate itself and never mutates entries.
type aggregationService struct {
	BaseService
	entryRepo portsrepo.EntryRepository
	bookRepo  portsrepo.BookRepository
	fx        portssvc.NormalizerSvc
	settings  portssvc.SettingsSvcFacade
	cache     ports.TotalsCache // optional, may be nil
}

// NewAggregationService creates a new aggregationService.
func NewAggregationService(
	entryRepo portsrepo.EntryRepository,
	bookRepo portsrepo.BookRepository,
	fx portssvc.NormalizerSvc,
	settings portssvc.SettingsSvcFacade,
	cache ports.TotalsCache,
) portssvc.AggregationSvcFacade {
	return &aggregationService{
		entryRepo: entryRepo,
		bookRepo:  bookRepo,
		fx:        fx,
		settings:  settings,
		cache:     cache,
	}
}

var _ portssvc.AggregationSvcFacade = (*aggregationService)(nil)

// Aggregate computes totals for one book, or across all books when bookID is
// "all". Each book's entries are reconciled against that book's own lock
// before being summed into the grand total.
func (s *aggregationService) Aggregate(ctx context.Context, bookID string) (*domain.BookTotals, error) {
	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read default currency: %w", err)
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, bookID, defaultCurrency); err != nil {
			s.LogWarn(ctx, "Totals cache read failed", slog.String("book_id", bookID), slog.String("error", err.Error()))
		} else if ok {
			return cached, nil
		}
	}

	totals := &domain.BookTotals{BookID: bookID, CurrencyCode: defaultCurrency}

	var books []domain.Book
	if bookID == portssvc.AggregateAll {
		books, err = s.bookRepo.ListBooks(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list books: %w", err)
		}
	} else {
		book, err := s.bookRepo.FindBookByID(ctx, bookID)
		if err != nil {
			return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
		}
		books = []domain.Book{*book}
	}

	for i := range books {
		book := &books[i]
		entries, err := s.entryRepo.FindEntriesByBookID(ctx, book.BookID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries for book %s: %w", book.BookID, err)
		}
		for j := range entries {
			effective := s.reconcile(ctx, &entries[j], book, defaultCurrency)
			if effective >= 0 {
				totals.TotalIncome += effective
			} else {
				totals.TotalExpenses += -effective
			}
			totals.EntryCount++
		}
	}
	totals.NetBalance = totals.TotalIncome - totals.TotalExpenses

	if s.cache != nil {
		if err := s.cache.Set(ctx, *totals); err != nil {
			s.LogWarn(ctx, "Totals cache write failed", slog.String("book_id", bookID), slog.String("error", err.Error()))
		}
	}
	return totals, nil
}

// EffectiveAmount reconciles a single entry for row-level display.
func (s *aggregationService) EffectiveAmount(ctx context.Context, entryID string) (float64, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}
	book, err := s.bookRepo.FindBookByID(ctx, entry.BookID)
	if err != nil {
		return 0, fmt.Errorf("failed to get book %s: %w", entry.BookID, err)
	}
	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read default currency: %w", err)
	}
	return s.reconcile(ctx, entry, book, defaultCurrency), nil
}

// reconcile resolves one entry's effective amount. The cached tiers are
// handled by the pure ReconcileCached; only legacy entries without any
// applicable cache or lock reach the rate provider. A failed live lookup
// degrades to the unconverted amount (the 1.0 fallback policy), keeping
// aggregation available. Nothing here writes: a detected stale cache is
// repaired for this computation only and logged.
func (s *aggregationService) reconcile(ctx context.Context, entry *domain.Entry, book *domain.Book, defaultCurrency string) float64 {
	effective, outcome := ReconcileCached(entry, book, defaultCurrency)
	switch outcome {
	case ReconcileStaleRepaired:
		s.LogInfo(ctx, "Stale lock detected, repaired for this read",
			slog.String("entry_id", entry.EntryID),
			slog.String("book_id", book.BookID),
			slog.Float64("cached_rate", entry.Normalized.Rate),
			slog.Float64("locked_rate", *book.LockedRate),
		)
	case ReconcileNeedsLiveRate:
		rate, err := s.fx.FetchRate(ctx, entry.CurrencyCode, defaultCurrency, book.BookID)
		if err != nil {
			s.LogWarn(ctx, "Live rate unavailable for legacy entry, using unconverted amount",
				slog.String("entry_id", entry.EntryID),
				slog.String("currency", entry.CurrencyCode),
				slog.String("error", err.Error()),
			)
			return entry.Amount
		}
		return entry.Amount * rate
	}
	return effective
}
