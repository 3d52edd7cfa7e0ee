package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
	"github.com/fintrackd/fintrack_app/internal/dto"
	"github.com/google/uuid"
)

// rateDeviationThreshold is the relative deviation between a manual rate and
// the freshly fetched API rate above which an explicit confirmation is
// required. A guardrail against fat-finger entry, not a hard block.
const rateDeviationThreshold = 0.10

// bookService provides business logic for books and their locked exchange rates.
type bookService struct {
	BaseService
	bookRepo     portsrepo.BookRepository
	entryRepo    portsrepo.EntryRepository
	currencyRepo portsrepo.CurrencyReader
	fx           portssvc.NormalizerSvc
	settings     portssvc.SettingsSvcFacade
	cache        ports.TotalsCache // optional, may be nil
}

// NewBookService creates a new bookService.
func NewBookService(
	bookRepo portsrepo.BookRepository,
	entryRepo portsrepo.EntryRepository,
	currencyRepo portsrepo.CurrencyReader,
	fx portssvc.NormalizerSvc,
	settings portssvc.SettingsSvcFacade,
	cache ports.TotalsCache,
) portssvc.BookSvcFacade {
	return &bookService{
		bookRepo:     bookRepo,
		entryRepo:    entryRepo,
		currencyRepo: currencyRepo,
		fx:           fx,
		settings:     settings,
		cache:        cache,
	}
}

var _ portssvc.BookSvcFacade = (*bookService)(nil)

// CreateBook creates a book and locks its exchange rate against the user's
// current default currency. A failed rate fetch leaves the book without a
// lock; it is never a blocking error.
func (s *bookService) CreateBook(ctx context.Context, req dto.CreateBookRequest) (*domain.Book, error) {
	if err := s.validateCurrencyCode(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}

	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read default currency: %w", err)
	}

	now := time.Now()
	book := domain.Book{
		BookID:       uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	// Same-currency books never need a lock; the rate is implicitly 1.0.
	if book.CurrencyCode != defaultCurrency {
		rate, err := s.fx.FetchRate(ctx, book.CurrencyCode, defaultCurrency, "")
		if err != nil {
			s.LogWarn(ctx, "Could not lock rate at book creation, book created without lock",
				slog.String("book_id", book.BookID),
				slog.String("currency", book.CurrencyCode),
				slog.String("target_currency", defaultCurrency),
				slog.String("error", err.Error()),
			)
		} else {
			book.LockedRate = &rate
			book.TargetCurrencyCode = defaultCurrency
			book.RateLockedAt = &now
		}
	}

	if err := s.bookRepo.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.LogInfo(ctx, "Book created",
		slog.String("book_id", book.BookID),
		slog.String("currency", book.CurrencyCode),
		slog.Bool("rate_locked", book.LockedRate != nil),
	)
	return &book, nil
}

// GetBookByID retrieves a specific book.
func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
	}
	return book, nil
}

// ListBooks retrieves all books.
func (s *bookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.bookRepo.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// UpdateBook updates mutable book fields (name).
func (s *bookService) UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
	}

	book.Name = req.Name
	book.LastUpdatedAt = time.Now()

	if err := s.bookRepo.UpdateBook(ctx, *book); err != nil {
		return nil, fmt.Errorf("failed to update book %s: %w", bookID, err)
	}
	return book, nil
}

// DeleteBook removes a book and its entries.
func (s *bookService) DeleteBook(ctx context.Context, bookID string) error {
	// Re-read before deleting: the check must hold after any suspension
	// point that preceded this call.
	if _, err := s.bookRepo.FindBookByID(ctx, bookID); err != nil {
		return fmt.Errorf("failed to get book %s: %w", bookID, err)
	}
	if err := s.bookRepo.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("failed to delete book %s: %w", bookID, err)
	}
	s.invalidateTotals(ctx, bookID)
	return nil
}

// LockRate overwrites the book's locked rate with a user-supplied value and
// renormalizes the book's entries. The rate must be positive and finite. A
// manual rate deviating more than 10% from the freshly fetched API rate is
// rejected with ErrRateDeviation until the caller confirms.
func (s *bookService) LockRate(ctx context.Context, bookID string, req dto.LockRateRequest) (*domain.Book, error) {
	if req.Rate == nil || !domain.IsUsableRate(*req.Rate) {
		return nil, fmt.Errorf("%w: rate must be a positive finite number", apperrors.ErrInvalidRate)
	}
	rate := *req.Rate

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
	}

	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read default currency: %w", err)
	}
	if book.CurrencyCode == defaultCurrency {
		return nil, fmt.Errorf("%w: book currency equals the default currency, no lock needed", apperrors.ErrValidation)
	}

	if !req.Confirmed {
		apiRate, err := s.fx.FetchRate(ctx, book.CurrencyCode, defaultCurrency, book.BookID)
		if err != nil {
			// No API rate to compare against; accept the manual rate.
			s.LogWarn(ctx, "Could not fetch API rate for deviation check",
				slog.String("book_id", bookID),
				slog.String("error", err.Error()),
			)
		} else if deviation := math.Abs(rate-apiRate) / apiRate; deviation > rateDeviationThreshold {
			return nil, fmt.Errorf("%w: your rate %v deviates %.0f%% from API rate %v",
				apperrors.ErrRateDeviation, rate, deviation*100, apiRate)
		}
	}

	now := time.Now()
	book.LockedRate = &rate
	book.TargetCurrencyCode = defaultCurrency
	book.RateLockedAt = &now
	book.LastUpdatedAt = now

	if err := s.bookRepo.UpdateBook(ctx, *book); err != nil {
		return nil, fmt.Errorf("failed to update book %s: %w", bookID, err)
	}

	s.renormalizeEntries(ctx, book, defaultCurrency)
	s.invalidateTotals(ctx, bookID)

	s.LogInfo(ctx, "Book rate locked",
		slog.String("book_id", bookID),
		slog.Float64("rate", rate),
		slog.String("target_currency", defaultCurrency),
	)
	return book, nil
}

// ChangeCurrency switches the book to a new currency, refreshing the lock and
// renormalizing entries. Existing entries keep their own currency; they are
// never silently rewritten.
func (s *bookService) ChangeCurrency(ctx context.Context, bookID string, req dto.ChangeCurrencyRequest) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
	}
	if book.CurrencyCode == req.CurrencyCode {
		return nil, fmt.Errorf("%w: book is already denominated in %s", apperrors.ErrValidation, req.CurrencyCode)
	}
	if err := s.validateCurrencyCode(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}
	if req.Rate != nil && !domain.IsUsableRate(*req.Rate) {
		return nil, fmt.Errorf("%w: rate must be a positive finite number", apperrors.ErrInvalidRate)
	}

	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read default currency: %w", err)
	}

	now := time.Now()
	book.CurrencyCode = req.CurrencyCode
	book.LockedRate = nil
	book.TargetCurrencyCode = ""
	book.RateLockedAt = nil
	book.LastUpdatedAt = now

	if book.CurrencyCode != defaultCurrency {
		var rate float64
		if req.Rate != nil {
			rate = *req.Rate
		} else {
			rate, err = s.fx.FetchRate(ctx, book.CurrencyCode, defaultCurrency, book.BookID)
			if err != nil {
				s.LogWarn(ctx, "Could not refresh lock on currency change, book left without lock",
					slog.String("book_id", bookID),
					slog.String("currency", book.CurrencyCode),
					slog.String("error", err.Error()),
				)
			}
		}
		if domain.IsUsableRate(rate) {
			book.LockedRate = &rate
			book.TargetCurrencyCode = defaultCurrency
			book.RateLockedAt = &now
		}
	}

	if err := s.bookRepo.UpdateBook(ctx, *book); err != nil {
		return nil, fmt.Errorf("failed to update book %s: %w", bookID, err)
	}

	s.renormalizeEntries(ctx, book, defaultCurrency)
	s.invalidateTotals(ctx, bookID)

	s.LogInfo(ctx, "Book currency changed",
		slog.String("book_id", bookID),
		slog.String("currency", book.CurrencyCode),
		slog.Bool("rate_locked", book.LockedRate != nil),
	)
	return book, nil
}

// renormalizeEntries recomputes cached normalized fields for all of the
// book's entries after a lock or currency change. Entries are processed
// sequentially. When a live rate is needed and unavailable, the entry's
// existing cache is left untouched rather than degraded: the consistency
// auditor will still produce a usable amount on read.
func (s *bookService) renormalizeEntries(ctx context.Context, book *domain.Book, defaultCurrency string) {
	entries, err := s.entryRepo.FindEntriesByBookID(ctx, book.BookID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for renormalization", slog.String("book_id", book.BookID))
		return
	}

	updated := 0
	for i := range entries {
		entry := &entries[i]

		var n domain.Normalization
		lockRate, hasLock := book.Lock(defaultCurrency)
		switch {
		case entry.CurrencyCode == defaultCurrency:
			n = domain.Normalization{Amount: entry.Amount, Rate: 1.0, CurrencyCode: defaultCurrency}
		case hasLock && entry.CurrencyCode == book.CurrencyCode:
			n = domain.Normalization{Amount: entry.Amount * lockRate, Rate: lockRate, CurrencyCode: defaultCurrency}
		default:
			rate, err := s.fx.FetchRate(ctx, entry.CurrencyCode, defaultCurrency, book.BookID)
			if err != nil {
				s.LogWarn(ctx, "Skipping renormalization, rate unavailable",
					slog.String("entry_id", entry.EntryID),
					slog.String("currency", entry.CurrencyCode),
				)
				continue
			}
			n = domain.Normalization{Amount: entry.Amount * rate, Rate: rate, CurrencyCode: defaultCurrency}
		}

		if entry.Normalized != nil && *entry.Normalized == n {
			continue
		}
		entry.Normalized = &n
		entry.LastUpdatedAt = time.Now()
		if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
			s.LogError(ctx, err, "Failed to persist renormalized entry", slog.String("entry_id", entry.EntryID))
			continue
		}
		updated++
	}

	s.LogInfo(ctx, "Entries renormalized",
		slog.String("book_id", book.BookID),
		slog.Int("updated", updated),
		slog.Int("total", len(entries)),
	)
}

func (s *bookService) validateCurrencyCode(ctx context.Context, code string) error {
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
		}
		return fmt.Errorf("failed to validate currency '%s': %w", code, err)
	}
	return nil
}

func (s *bookService) invalidateTotals(ctx context.Context, bookID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, bookID, portssvc.AggregateAll); err != nil {
		s.LogWarn(ctx, "Failed to invalidate totals cache", slog.String("book_id", bookID), slog.String("error", err.Error()))
	}
}
