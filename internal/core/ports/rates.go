package ports

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// RateProvider fetches point-in-time exchange rates from an external source.
// The core only consumes these two operations; everything else about the
// provider (transport, caching, credentials) is its own business.
type RateProvider interface {
	// GetRate returns the current conversion rate from one currency to
	// another. bookID may be passed to let the provider prefer a book-level
	// locked rate over a fresh lookup; it may be empty.
	// Returns apperrors.ErrRateUnavailable when no rate can be produced.
	GetRate(ctx context.Context, fromCurrency, toCurrency, bookID string) (float64, error)

	// CaptureSnapshot returns rates from baseCurrency to all supported
	// currencies, used as an audit-trail snapshot at entry creation.
	CaptureSnapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error)
}

// TotalsCache caches aggregated book totals keyed by book and display
// currency. Implementations must be safe to skip entirely (a nil cache is
// valid); aggregation correctness never depends on it.
type TotalsCache interface {
	Get(ctx context.Context, bookID, currency string) (*domain.BookTotals, bool, error)
	Set(ctx context.Context, totals domain.BookTotals) error
	Invalidate(ctx context.Context, bookIDs ...string) error
	Clear(ctx context.Context) error
}
