package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
)

// fxService is the normalization engine. It resolves a conversion rate for an
// entry amount once, so aggregation reads never touch the rate provider.
type fxService struct {
	BaseService
	provider ports.RateProvider
}

// NewFxService creates a new normalization engine backed by the given rate provider.
func NewFxService(provider ports.RateProvider) portssvc.NormalizerSvc {
	return &fxService{provider: provider}
}

var _ portssvc.NormalizerSvc = (*fxService)(nil)

// Normalize resolves the conversion rate for an amount in entryCurrency
// against the user's default currency, in order:
//  1. same currency: rate 1.0, no lookup
//  2. valid book lock (entry in the book's own currency, lock targeting the
//     default currency): locked rate
//  3. provider lookup, scoped by book so the provider may prefer a lock
//
// A failed lookup falls back to rate 1.0 with fellBack=true. Entry creation
// is never blocked on FX unavailability.
func (s *fxService) Normalize(ctx context.Context, amount float64, entryCurrency string, book *domain.Book, defaultCurrency string) (domain.Normalization, bool) {
	if entryCurrency == defaultCurrency {
		return domain.Normalization{
			Amount:       amount,
			Rate:         1.0,
			CurrencyCode: defaultCurrency,
		}, false
	}

	if book != nil && entryCurrency == book.CurrencyCode {
		if rate, ok := book.Lock(defaultCurrency); ok {
			return domain.Normalization{
				Amount:       amount * rate,
				Rate:         rate,
				CurrencyCode: defaultCurrency,
			}, false
		}
	}

	bookID := ""
	if book != nil {
		bookID = book.BookID
	}
	rate, err := s.provider.GetRate(ctx, entryCurrency, defaultCurrency, bookID)
	if err != nil || !domain.IsUsableRate(rate) {
		if err == nil {
			err = fmt.Errorf("%w: provider returned unusable rate %v", apperrors.ErrRateUnavailable, rate)
		}
		s.LogWarn(ctx, "Rate lookup failed, falling back to 1.0",
			slog.String("from", entryCurrency),
			slog.String("to", defaultCurrency),
			slog.String("book_id", bookID),
			slog.String("error", err.Error()),
		)
		return domain.Normalization{
			Amount:       amount,
			Rate:         1.0,
			CurrencyCode: defaultCurrency,
		}, true
	}

	return domain.Normalization{
		Amount:       amount * rate,
		Rate:         rate,
		CurrencyCode: defaultCurrency,
	}, false
}

// FetchRate fetches a fresh rate from the provider without fallback
// semantics. Same-currency pairs short-circuit to 1.0.
func (s *fxService) FetchRate(ctx context.Context, fromCurrency, toCurrency, bookID string) (float64, error) {
	if fromCurrency == toCurrency {
		return 1.0, nil
	}
	rate, err := s.provider.GetRate(ctx, fromCurrency, toCurrency, bookID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rate %s->%s: %w", fromCurrency, toCurrency, err)
	}
	if !domain.IsUsableRate(rate) {
		return 0, fmt.Errorf("%w: provider returned unusable rate %v for %s->%s", apperrors.ErrRateUnavailable, rate, fromCurrency, toCurrency)
	}
	return rate, nil
}

// Snapshot captures rates from baseCurrency to all supported currencies.
func (s *fxService) Snapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error) {
	snapshot, err := s.provider.CaptureSnapshot(ctx, baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to capture rate snapshot for %s: %w", baseCurrency, err)
	}
	return snapshot, nil
}
