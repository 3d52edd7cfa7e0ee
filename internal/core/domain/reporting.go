package domain

// BookTotals aggregates entries into income/expense/balance totals, always
// expressed in the user's current default currency.
//
// TotalIncome is the sum of non-negative effective amounts, TotalExpenses the
// sum of absolute values of negative ones, NetBalance income minus expenses.
type BookTotals struct {
	BookID        string  `json:"bookID"` // "all" for cross-book aggregation
	CurrencyCode  string  `json:"currencyCode"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetBalance    float64 `json:"netBalance"`
	EntryCount    int     `json:"entryCount"`
}
