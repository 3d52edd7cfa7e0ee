package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/models"
	"github.com/fintrackd/fintrack_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSettingsRepository implements the repositories.SettingsRepository
// interface using pgxpool.
type PgxSettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new PgxSettingsRepository.
func NewSettingsRepository(db *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{db: db}
}

// FindSetting retrieves a preference by key.
func (r *PgxSettingsRepository) FindSetting(ctx context.Context, key string) (*domain.Setting, error) {
	query := `
		SELECT key, value, created_at, last_updated_at
		FROM user_settings
		WHERE key = $1
	`
	m := models.Setting{}
	err := r.db.QueryRow(ctx, query, key).Scan(&m.Key, &m.Value, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding setting: %w", err)
	}
	setting := mapping.ToDomainSetting(m)
	return &setting, nil
}

// SaveSetting upserts a preference.
func (r *PgxSettingsRepository) SaveSetting(ctx context.Context, setting domain.Setting) error {
	m := mapping.ToModelSetting(setting)
	query := `
		INSERT INTO user_settings (key, value, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, last_updated_at = EXCLUDED.last_updated_at
	`
	_, err := r.db.Exec(ctx, query, m.Key, m.Value, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("error saving setting: %w", err)
	}
	return nil
}
