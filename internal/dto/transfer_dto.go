package dto

import "github.com/fintrackd/fintrack_app/internal/core/domain"

// TransferRequest moves or copies a batch of entries from one book to
// another, applying a single conversion rate to the whole batch. The rate is
// caller-supplied (after a prior lookup shown to the user); the coordinator
// never guesses one. For same-currency transfers the rate must be exactly 1.
type TransferRequest struct {
	EntryIDs     []string `json:"entryIDs" binding:"required,min=1"`
	SourceBookID string   `json:"sourceBookID" binding:"required"`
	TargetBookID string   `json:"targetBookID" binding:"required"`
	Mode         string   `json:"mode" binding:"required,oneof=MOVE COPY"`
	Rate         *float64 `json:"rate" binding:"required"`
}

// TransferResponse reports the per-entry outcome of a bulk transfer.
type TransferResponse struct {
	Succeeded []string               `json:"succeeded"`
	Failed    []domain.TransferError `json:"failed"`
}

// ToTransferResponse converts a domain.TransferResult to TransferResponse DTO
func ToTransferResponse(result *domain.TransferResult) TransferResponse {
	res := TransferResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}
	if res.Succeeded == nil {
		res.Succeeded = []string{}
	}
	if res.Failed == nil {
		res.Failed = []domain.TransferError{}
	}
	return res
}
