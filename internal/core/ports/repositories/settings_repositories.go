package repositories

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// SettingsRepository defines persistence operations for user preferences.
type SettingsRepository interface {
	FindSetting(ctx context.Context, key string) (*domain.Setting, error)
	SaveSetting(ctx context.Context, setting domain.Setting) error
}
