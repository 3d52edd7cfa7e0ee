package services

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/dto"
)

// TransferSvcFacade is the bulk transfer coordinator: it moves or copies a
// batch of entries between books, applying one conversion rate to the whole
// batch. Entries are written sequentially; a mid-batch failure is reported
// per entry, not rolled back.
type TransferSvcFacade interface {
	Transfer(ctx context.Context, req dto.TransferRequest) (*domain.TransferResult, error)
}
