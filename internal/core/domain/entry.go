package domain

import "time"

// Normalization holds the cached conversion of an entry's amount into the
// user's default currency. Amount == entry.Amount * Rate, expressed in
// CurrencyCode (the default currency at the time normalization ran).
type Normalization struct {
	Amount       float64 `json:"normalizedAmount"`
	Rate         float64 `json:"conversionRate"`
	CurrencyCode string  `json:"normalizedCurrency"`
}

// Entry is a single income/expense transaction belonging to exactly one book.
// Amount is signed in the entry's own currency: positive = income, negative = expense.
//
// For newly created entries CurrencyCode equals the owning book's currency at
// creation time. Older entries may carry a currency the book has since moved
// away from; they are never silently rewritten.
type Entry struct {
	EntryID      string    `json:"entryID"` // Primary Key (UUID)
	BookID       string    `json:"bookID"`  // FK -> Book.bookID, exclusive ownership
	Amount       float64   `json:"amount"`
	CurrencyCode string    `json:"currencyCode"`
	Notes        string    `json:"notes"` // Nullable
	EntryDate    time.Time `json:"entryDate"`

	// Normalized is nil for legacy entries that were never normalized; they
	// are converted on demand by the consistency auditor.
	Normalized *Normalization `json:"normalized,omitempty"`

	// HistoricalRates is a snapshot of rates captured at creation time.
	// Audit trail only; never consulted by live aggregation.
	HistoricalRates map[string]float64 `json:"historicalRates,omitempty"`

	AuditFields
}

// IsNormalized reports whether the entry carries cached normalized fields.
func (e *Entry) IsNormalized() bool {
	return e.Normalized != nil
}

// NormalizationConsistent verifies the cache invariant
// normalizedAmount == amount * conversionRate within relative tolerance.
// Entries without normalized fields are trivially consistent.
func (e *Entry) NormalizationConsistent() bool {
	if e.Normalized == nil {
		return true
	}
	return AmountsEqual(e.Normalized.Amount, e.Amount*e.Normalized.Rate)
}
