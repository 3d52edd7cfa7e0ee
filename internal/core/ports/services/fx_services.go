package services

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// NormalizerSvc is the normalization engine: it computes the cached
// normalized amount for an entry amount in a book, against the user's
// current default currency.
type NormalizerSvc interface {
	// Normalize resolves the conversion rate (same-currency shortcut, valid
	// book lock, then provider lookup) and returns the normalization to
	// cache. fellBack is true when the provider had no rate and the 1.0
	// fallback was applied; rate lookups never fail the operation.
	Normalize(ctx context.Context, amount float64, entryCurrency string, book *domain.Book, defaultCurrency string) (n domain.Normalization, fellBack bool)

	// FetchRate fetches a fresh rate from the provider, bypassing fallback
	// semantics. Used by the rate-lock editor to display the current API
	// rate next to the user's locked rate.
	FetchRate(ctx context.Context, fromCurrency, toCurrency, bookID string) (float64, error)

	// Snapshot captures rates from baseCurrency to all supported currencies.
	Snapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error)
}
