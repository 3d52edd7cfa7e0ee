package utils

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// FormatAmount formats an amount for display in the given currency, using the
// currency's minor-unit precision and symbol ("$1,234.56"). Unknown currency
// codes fall back to a plain two-decimal rendering.
func FormatAmount(amount float64, currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		return fmt.Sprintf("%.2f %s", amount, currencyCode)
	}
	factor := math.Pow10(currency.Fraction)
	minor := int64(math.Round(amount * factor))
	return money.New(minor, currencyCode).Display()
}
