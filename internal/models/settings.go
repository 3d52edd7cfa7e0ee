package models

// Setting is the persistence shape of a user preference row.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	AuditFields
}
