package models

import "time"

// Entry is the persistence shape of an entry row. The normalized columns are
// nullable as a trio: legacy entries carry NULL in all three.
type Entry struct {
	EntryID            string             `json:"entryID"`
	BookID             string             `json:"bookID"`
	Amount             float64            `json:"amount"`
	CurrencyCode       string             `json:"currencyCode"`
	Notes              string             `json:"notes"`
	EntryDate          time.Time          `json:"entryDate"`
	NormalizedAmount   *float64           `json:"normalizedAmount"`
	NormalizedCurrency *string            `json:"normalizedCurrency"`
	ConversionRate     *float64           `json:"conversionRate"`
	HistoricalRates    map[string]float64 `json:"historicalRates"` // JSONB, NULL when not captured
	AuditFields
}
