package services

import "context"

// SettingsSvcFacade exposes the user preferences the core consumes. The
// default currency is read once per operation and passed down explicitly, so
// a mid-operation preference change never splits one computation across two
// currencies.
type SettingsSvcFacade interface {
	GetDefaultCurrency(ctx context.Context) (string, error)
	SetDefaultCurrency(ctx context.Context, currencyCode string) error
}
