package dto

import (
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/utils"
)

// TotalsResponse defines the aggregated totals returned for a book or for
// all books, expressed in the user's current default currency. Formatted
// fields carry display strings ("$1,234.56") for the raw float values.
type TotalsResponse struct {
	BookID                 string  `json:"bookID"`
	CurrencyCode           string  `json:"currencyCode"`
	TotalIncome            float64 `json:"totalIncome"`
	TotalExpenses          float64 `json:"totalExpenses"`
	NetBalance             float64 `json:"netBalance"`
	EntryCount             int     `json:"entryCount"`
	TotalIncomeFormatted   string  `json:"totalIncomeFormatted"`
	TotalExpensesFormatted string  `json:"totalExpensesFormatted"`
	NetBalanceFormatted    string  `json:"netBalanceFormatted"`
}

// ToTotalsResponse converts a domain.BookTotals to TotalsResponse DTO
func ToTotalsResponse(t *domain.BookTotals) TotalsResponse {
	return TotalsResponse{
		BookID:                 t.BookID,
		CurrencyCode:           t.CurrencyCode,
		TotalIncome:            t.TotalIncome,
		TotalExpenses:          t.TotalExpenses,
		NetBalance:             t.NetBalance,
		EntryCount:             t.EntryCount,
		TotalIncomeFormatted:   utils.FormatAmount(t.TotalIncome, t.CurrencyCode),
		TotalExpensesFormatted: utils.FormatAmount(t.TotalExpenses, t.CurrencyCode),
		NetBalanceFormatted:    utils.FormatAmount(t.NetBalance, t.CurrencyCode),
	}
}
