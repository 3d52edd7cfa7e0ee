package models

import "time"

// Book is the persistence shape of a book row.
type Book struct {
	BookID             string     `json:"bookID"`
	Name               string     `json:"name"`
	CurrencyCode       string     `json:"currencyCode"`
	LockedExchangeRate *float64   `json:"lockedExchangeRate"` // NULL when no lock exists
	TargetCurrencyCode *string    `json:"targetCurrency"`     // NULL alongside the rate
	RateLockedAt       *time.Time `json:"rateLockedAt"`
	AuditFields
}
