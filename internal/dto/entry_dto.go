package dto

import (
	"time"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// CreateEntryRequest defines the data needed to create a new entry.
// Amount is signed: positive = income, negative = expense. Zero is valid.
type CreateEntryRequest struct {
	BookID    string     `json:"bookID" binding:"required"`
	Amount    *float64   `json:"amount" binding:"required"`
	Notes     string     `json:"notes"`
	EntryDate *time.Time `json:"entryDate,omitempty"`
}

// UpdateEntryRequest defines the mutable entry fields. Nil fields are left
// unchanged; any amount change triggers renormalization.
type UpdateEntryRequest struct {
	Amount    *float64   `json:"amount,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	EntryDate *time.Time `json:"entryDate,omitempty"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID            string             `json:"entryID"`
	BookID             string             `json:"bookID"`
	Amount             float64            `json:"amount"`
	CurrencyCode       string             `json:"currencyCode"`
	Notes              string             `json:"notes,omitempty"`
	EntryDate          time.Time          `json:"entryDate"`
	NormalizedAmount   *float64           `json:"normalizedAmount,omitempty"`
	NormalizedCurrency string             `json:"normalizedCurrency,omitempty"`
	ConversionRate     *float64           `json:"conversionRate,omitempty"`
	HistoricalRates    map[string]float64 `json:"historicalRates,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`

	// Warning is set when the entry was stored with the 1.0 fallback rate
	// because the rate provider was unavailable.
	Warning string `json:"warning,omitempty"`
}

// EffectiveAmountResponse carries the reconciled amount for row-level display.
type EffectiveAmountResponse struct {
	EntryID         string  `json:"entryID"`
	EffectiveAmount float64 `json:"effectiveAmount"`
	CurrencyCode    string  `json:"currencyCode"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO
func ToEntryResponse(entry *domain.Entry) EntryResponse {
	res := EntryResponse{
		EntryID:         entry.EntryID,
		BookID:          entry.BookID,
		Amount:          entry.Amount,
		CurrencyCode:    entry.CurrencyCode,
		Notes:           entry.Notes,
		EntryDate:       entry.EntryDate,
		HistoricalRates: entry.HistoricalRates,
		CreatedAt:       entry.CreatedAt,
		LastUpdatedAt:   entry.LastUpdatedAt,
	}
	if entry.Normalized != nil {
		res.NormalizedAmount = &entry.Normalized.Amount
		res.NormalizedCurrency = entry.Normalized.CurrencyCode
		res.ConversionRate = &entry.Normalized.Rate
	}
	return res
}

// ToListEntryResponse converts a slice of domain.Entry to a slice of EntryResponse DTOs
func ToListEntryResponse(entries []domain.Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(&e)
	}
	return res
}
