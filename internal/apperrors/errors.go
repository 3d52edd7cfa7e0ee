package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRateUnavailable indicates that the rate provider returned no usable rate.
// Callers recover locally by falling back to a 1.0 conversion rate; this is
// never surfaced as a blocking error on the entry-creation flow.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrInvalidRate indicates a user-supplied rate that is non-positive, non-finite or NaN.
// The write is refused at the input boundary, not clamped.
var ErrInvalidRate = errors.New("invalid exchange rate")

// ErrNoSelection is returned by the bulk transfer coordinator when no entries were selected.
var ErrNoSelection = errors.New("no entries selected")

// ErrSameBookTransfer is returned when source and target book of a transfer are the same.
var ErrSameBookTransfer = errors.New("source and target book are the same")

// ErrRateDeviation indicates a manual rate override that deviates from the freshly
// fetched API rate by more than the allowed threshold and has not been confirmed.
var ErrRateDeviation = errors.New("rate deviates from API rate, confirmation required")

// FailedEntry records a single entry that could not be transferred and why.
type FailedEntry struct {
	EntryID string `json:"entryID"`
	Reason  string `json:"reason"`
}

// PartialBatchError is returned by the bulk transfer coordinator when some but
// not all entries in a batch were written. Earlier writes are not rolled back;
// the caller decides whether to retry the failures.
type PartialBatchError struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []FailedEntry `json:"failed"`
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("bulk transfer partially failed: %d succeeded, %d failed", len(e.Succeeded), len(e.Failed))
}
