package models

// Currency is the persistence shape of a currency row.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	AuditFields
}
