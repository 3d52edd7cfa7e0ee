package domain

// TransferMode selects whether a bulk transfer reassigns entries to the
// target book or creates copies with fresh identities.
type TransferMode string

const (
	TransferMove TransferMode = "MOVE"
	TransferCopy TransferMode = "COPY"
)

// TransferResult reports the per-entry outcome of one bulk transfer batch.
// Entries are processed sequentially without an all-or-nothing guarantee, so
// both lists can be non-empty after a mid-batch failure.
type TransferResult struct {
	Succeeded []string        `json:"succeeded"`
	Failed    []TransferError `json:"failed"`
}

// TransferError records why a single entry could not be transferred.
type TransferError struct {
	EntryID string `json:"entryID"`
	Reason  string `json:"reason"`
}
