package domain

import "time"

// RateSnapshot is a point-in-time capture of rates from a base currency to
// all supported currencies, as returned by the rate provider.
type RateSnapshot struct {
	BaseCurrency string             `json:"baseCurrency"`
	AsOf         time.Time          `json:"asOf"`
	Rates        map[string]float64 `json:"rates"`
}
