package services

import (
	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// ReconcileOutcome describes which tier of the consistency check produced an
// effective amount.
type ReconcileOutcome int

const (
	// ReconcileTrustedCache: the cached normalized amount was used as-is.
	ReconcileTrustedCache ReconcileOutcome = iota
	// ReconcileStaleRepaired: the cached conversion rate disagreed with the
	// book's current lock; the amount was recomputed from the lock for this
	// read. The stored entry is not touched.
	ReconcileStaleRepaired
	// ReconcileUsedLock: no usable cache, but the book's valid lock applied.
	ReconcileUsedLock
	// ReconcileSameCurrency: the entry is already in the default currency.
	ReconcileSameCurrency
	// ReconcileNeedsLiveRate: no cache and no applicable lock; the caller
	// must fetch a live rate to convert.
	ReconcileNeedsLiveRate
)

// ReconcileCached computes an entry's effective amount in the user's default
// currency from cached state only. It is pure: it never mutates the entry and
// never performs I/O. When it cannot decide without a live rate it returns
// ReconcileNeedsLiveRate and the raw amount.
//
// Tiering:
//  1. A normalized amount in the default currency is trusted, unless the
//     book's valid lock applies to the entry and disagrees with the cached
//     conversion rate, in which case the amount is recomputed from the lock
//     (stale cache repair, for this computation only).
//  2. Without a usable cache, a valid lock on the entry's own currency
//     converts directly; same-currency entries need no conversion.
//  3. Anything else is a legacy entry needing a live conversion.
func ReconcileCached(entry *domain.Entry, book *domain.Book, defaultCurrency string) (float64, ReconcileOutcome) {
	lockRate, hasLock := book.Lock(defaultCurrency)
	lockApplies := hasLock && entry.CurrencyCode == book.CurrencyCode

	if entry.IsNormalized() && entry.Normalized.CurrencyCode == defaultCurrency {
		if lockApplies && !domain.RatesEqual(entry.Normalized.Rate, lockRate) {
			return entry.Amount * lockRate, ReconcileStaleRepaired
		}
		return entry.Normalized.Amount, ReconcileTrustedCache
	}

	// No usable cache: either never normalized, or normalized against a
	// default currency that has since changed.
	if entry.CurrencyCode == defaultCurrency {
		return entry.Amount, ReconcileSameCurrency
	}
	if lockApplies {
		return entry.Amount * lockRate, ReconcileUsedLock
	}
	return entry.Amount, ReconcileNeedsLiveRate
}
