package dto

import (
	"time"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// CreateBookRequest defines the data needed to create a new book.
type CreateBookRequest struct {
	Name         string `json:"name" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
}

// UpdateBookRequest defines the mutable book fields.
type UpdateBookRequest struct {
	Name string `json:"name" binding:"required"`
}

// LockRateRequest overwrites a book's locked exchange rate with a manual
// value. Rate is a pointer so binding can tell "absent" from zero; zero is
// rejected by the service as an invalid rate either way.
type LockRateRequest struct {
	Rate      *float64 `json:"rate" binding:"required"`
	Confirmed bool     `json:"confirmed"` // accept a >10% deviation from the API rate
}

// ChangeCurrencyRequest switches a book to a new currency. When Rate is set
// it becomes the new locked rate; otherwise a fresh rate is fetched.
type ChangeCurrencyRequest struct {
	CurrencyCode string   `json:"currencyCode" binding:"required,uppercase,len=3"`
	Rate         *float64 `json:"rate,omitempty"`
}

// BookResponse defines the data returned for a book.
type BookResponse struct {
	BookID             string     `json:"bookID"`
	Name               string     `json:"name"`
	CurrencyCode       string     `json:"currencyCode"`
	LockedExchangeRate *float64   `json:"lockedExchangeRate,omitempty"`
	TargetCurrency     string     `json:"targetCurrency,omitempty"`
	RateLockedAt       *time.Time `json:"rateLockedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastUpdatedAt      time.Time  `json:"lastUpdatedAt"`
}

// RatePreviewResponse shows the freshly fetched API rate next to the user's
// currently locked rate, for the rate editor.
type RatePreviewResponse struct {
	BookID         string     `json:"bookID"`
	FromCurrency   string     `json:"fromCurrency"`
	ToCurrency     string     `json:"toCurrency"`
	APIRate        *float64   `json:"apiRate,omitempty"` // nil when the provider is unavailable
	LockedRate     *float64   `json:"lockedRate,omitempty"`
	TargetCurrency string     `json:"targetCurrency,omitempty"`
	RateLockedAt   *time.Time `json:"rateLockedAt,omitempty"`
}

// ToBookResponse converts a domain.Book to BookResponse DTO
func ToBookResponse(book *domain.Book) BookResponse {
	return BookResponse{
		BookID:             book.BookID,
		Name:               book.Name,
		CurrencyCode:       book.CurrencyCode,
		LockedExchangeRate: book.LockedRate,
		TargetCurrency:     book.TargetCurrencyCode,
		RateLockedAt:       book.RateLockedAt,
		CreatedAt:          book.CreatedAt,
		LastUpdatedAt:      book.LastUpdatedAt,
	}
}

// ToListBookResponse converts a slice of domain.Book to a slice of BookResponse DTOs
func ToListBookResponse(books []domain.Book) []BookResponse {
	res := make([]BookResponse, len(books))
	for i, b := range books {
		res[i] = ToBookResponse(&b)
	}
	return res
}
