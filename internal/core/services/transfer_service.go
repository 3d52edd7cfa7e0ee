package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
	"github.com/fintrackd/fintrack_app/internal/dto"
	"github.com/google/uuid"
)

// transferService is the bulk transfer coordinator. One invocation applies a
// single caller-supplied conversion rate to every selected entry; entries are
// written sequentially with no cross-entry transaction, and a mid-batch
// failure is reported per entry so the caller can retry the remainder.
type transferService struct {
	BaseService
	entryRepo portsrepo.EntryRepository
	bookRepo  portsrepo.BookRepository
	fx        portssvc.NormalizerSvc
	settings  portssvc.SettingsSvcFacade
	cache     ports.TotalsCache // optional, may be nil
}

// NewTransferService creates a new transferService.
func NewTransferService(
	entryRepo portsrepo.EntryRepository,
	bookRepo portsrepo.BookRepository,
	fx portssvc.NormalizerSvc,
	settings portssvc.SettingsSvcFacade,
	cache ports.TotalsCache,
) portssvc.TransferSvcFacade {
	return &transferService{
		entryRepo: entryRepo,
		bookRepo:  bookRepo,
		fx:        fx,
		settings:  settings,
		cache:     cache,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer moves or copies the selected entries from the source book to the
// target book. For same-currency books the rate must be exactly 1.0; for
// differing currencies the caller supplies the rate (the coordinator never
// guesses one). Returns a TransferResult alongside a PartialBatchError when
// any entry failed.
func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.TransferResult, error) {
	if len(req.EntryIDs) == 0 {
		return nil, fmt.Errorf("%w: select at least one entry to transfer", apperrors.ErrNoSelection)
	}
	if req.SourceBookID == req.TargetBookID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSameBookTransfer, req.SourceBookID)
	}
	mode := domain.TransferMode(req.Mode)
	if mode != domain.TransferMove && mode != domain.TransferCopy {
		return nil, fmt.Errorf("%w: unknown transfer mode '%s'", apperrors.ErrValidation, req.Mode)
	}
	if req.Rate == nil {
		return nil, fmt.Errorf("%w: conversion rate is required", apperrors.ErrInvalidRate)
	}
	rate := *req.Rate

	source, err := s.bookRepo.FindBookByID(ctx, req.SourceBookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source book %s: %w", req.SourceBookID, err)
	}
	target, err := s.bookRepo.FindBookByID(ctx, req.TargetBookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target book %s: %w", req.TargetBookID, err)
	}

	if source.CurrencyCode == target.CurrencyCode {
		if rate != 1.0 {
			return nil, fmt.Errorf("%w: same-currency transfer requires rate 1.0, got %v", apperrors.ErrValidation, rate)
		}
	} else if !domain.IsUsableRate(rate) {
		return nil, fmt.Errorf("%w: rate must be a positive finite number", apperrors.ErrInvalidRate)
	}

	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read default currency: %w", err)
	}

	result := &domain.TransferResult{}
	for _, entryID := range req.EntryIDs {
		if err := s.transferOne(ctx, entryID, source, target, mode, rate, defaultCurrency); err != nil {
			result.Failed = append(result.Failed, domain.TransferError{EntryID: entryID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, entryID)
	}

	// Totals keyed by the old book are as stale as the new book's after a
	// move, so both sides are invalidated.
	s.invalidateTotals(ctx, source.BookID, target.BookID)

	s.LogInfo(ctx, "Bulk transfer finished",
		slog.String("source_book_id", source.BookID),
		slog.String("target_book_id", target.BookID),
		slog.String("mode", string(mode)),
		slog.Float64("rate", rate),
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)),
	)

	if len(result.Failed) > 0 {
		failed := make([]apperrors.FailedEntry, len(result.Failed))
		for i, f := range result.Failed {
			failed[i] = apperrors.FailedEntry{EntryID: f.EntryID, Reason: f.Reason}
		}
		return result, &apperrors.PartialBatchError{Succeeded: result.Succeeded, Failed: failed}
	}
	return result, nil
}

// transferOne applies the batch rate to a single entry. Move reassigns
// ownership in place; Copy mints a fresh identity and leaves the source
// entry untouched.
func (s *transferService) transferOne(ctx context.Context, entryID string, source, target *domain.Book, mode domain.TransferMode, rate float64, defaultCurrency string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	if entry.BookID != source.BookID {
		return fmt.Errorf("%w: entry does not belong to source book %s", apperrors.ErrValidation, source.BookID)
	}

	now := time.Now()
	amount := entry.Amount * rate
	n, fellBack := s.fx.Normalize(ctx, amount, target.CurrencyCode, target, defaultCurrency)
	if fellBack {
		s.LogWarn(ctx, "Transferred entry normalized with 1.0 fallback rate",
			slog.String("entry_id", entryID),
			slog.String("currency", target.CurrencyCode),
		)
	}

	switch mode {
	case domain.TransferMove:
		entry.BookID = target.BookID
		entry.Amount = amount
		entry.CurrencyCode = target.CurrencyCode
		entry.Normalized = &n
		entry.LastUpdatedAt = now
		if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
			return fmt.Errorf("failed to move entry: %w", err)
		}
	case domain.TransferCopy:
		copied := domain.Entry{
			EntryID:         uuid.NewString(),
			BookID:          target.BookID,
			Amount:          amount,
			CurrencyCode:    target.CurrencyCode,
			Notes:           entry.Notes,
			EntryDate:       entry.EntryDate,
			Normalized:      &n,
			HistoricalRates: entry.HistoricalRates,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.entryRepo.SaveEntry(ctx, copied); err != nil {
			return fmt.Errorf("failed to copy entry: %w", err)
		}
	}
	return nil
}

func (s *transferService) invalidateTotals(ctx context.Context, bookIDs ...string) {
	if s.cache == nil {
		return
	}
	ids := append(bookIDs, portssvc.AggregateAll)
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.LogWarn(ctx, "Failed to invalidate totals cache", slog.String("error", err.Error()))
	}
}
