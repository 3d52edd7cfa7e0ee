package dto

// UpdateDefaultCurrencyRequest changes the user's default display currency.
// Existing book locks targeting the old currency become stale and are
// repaired lazily on the next aggregation read.
type UpdateDefaultCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
}

// DefaultCurrencyResponse returns the current default display currency.
type DefaultCurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
}
