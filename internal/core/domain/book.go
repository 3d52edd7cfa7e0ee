package domain

import "time"

// Book is a named container of entries sharing one currency.
//
// A book may carry a locked exchange rate from its own currency to the target
// currency it was locked against. The lock is computed once at book creation
// (or explicit edit) and is what keeps aggregation stable when live rates move.
type Book struct {
	BookID       string `json:"bookID"` // Primary Key (UUID)
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // Denomination of the book's entries

	// LockedRate is the rate from CurrencyCode to TargetCurrencyCode captured
	// at lock time. Nil when no lock exists (same-currency books never need
	// one; the rate is implicitly 1.0).
	LockedRate         *float64   `json:"lockedExchangeRate,omitempty"`
	TargetCurrencyCode string     `json:"targetCurrency,omitempty"`
	RateLockedAt       *time.Time `json:"rateLockedAt,omitempty"`

	AuditFields
}

// HasValidLock reports whether the book carries a lock that still targets the
// user's current default currency. A lock whose target no longer matches is
// stale; staleness is a pure comparison, checked lazily wherever the lock is
// consulted.
func (b *Book) HasValidLock(defaultCurrency string) bool {
	return b.LockedRate != nil && b.TargetCurrencyCode == defaultCurrency && b.CurrencyCode != b.TargetCurrencyCode
}

// Lock returns the locked rate valid against defaultCurrency, or (0, false).
func (b *Book) Lock(defaultCurrency string) (float64, bool) {
	if !b.HasValidLock(defaultCurrency) {
		return 0, false
	}
	return *b.LockedRate, true
}
