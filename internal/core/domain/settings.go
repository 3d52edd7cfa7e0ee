package domain

// Setting is a single user preference key/value pair. The only key the core
// consumes is the default display currency.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	AuditFields
}

// SettingDefaultCurrency is the preference key for the user's default currency.
const SettingDefaultCurrency = "default_currency"
