package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
)

// settingsService exposes user preferences. The default display currency is
// the only preference the core consumes.
type settingsService struct {
	BaseService
	settingsRepo     portsrepo.SettingsRepository
	currencyRepo     portsrepo.CurrencyReader
	cache            ports.TotalsCache // optional, may be nil
	fallbackCurrency string
}

// NewSettingsService creates a new settingsService. fallbackCurrency is used
// when no preference has been stored yet.
func NewSettingsService(
	settingsRepo portsrepo.SettingsRepository,
	currencyRepo portsrepo.CurrencyReader,
	cache ports.TotalsCache,
	fallbackCurrency string,
) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo:     settingsRepo,
		currencyRepo:     currencyRepo,
		cache:            cache,
		fallbackCurrency: fallbackCurrency,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetDefaultCurrency returns the user's default display currency.
func (s *settingsService) GetDefaultCurrency(ctx context.Context) (string, error) {
	setting, err := s.settingsRepo.FindSetting(ctx, domain.SettingDefaultCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.fallbackCurrency, nil
		}
		return "", fmt.Errorf("failed to read default currency setting: %w", err)
	}
	return setting.Value, nil
}

// SetDefaultCurrency changes the default display currency. Book locks
// targeting the previous currency become stale; they are detected lazily on
// the next aggregation read, so the only immediate work is dropping cached
// totals that are now denominated in the wrong currency.
func (s *settingsService) SetDefaultCurrency(ctx context.Context, currencyCode string) error {
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, currencyCode)
		}
		return fmt.Errorf("failed to validate currency '%s': %w", currencyCode, err)
	}

	now := time.Now()
	setting := domain.Setting{
		Key:   domain.SettingDefaultCurrency,
		Value: currencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.settingsRepo.SaveSetting(ctx, setting); err != nil {
		return fmt.Errorf("failed to save default currency setting: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.LogWarn(ctx, "Failed to clear totals cache after default currency change", slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Default currency changed", slog.String("currency", currencyCode))
	return nil
}
