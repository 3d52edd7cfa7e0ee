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

// PgxEntryRepository implements the repositories.EntryRepository interface using pgxpool.
type PgxEntryRepository struct {
	db *pgxpool.Pool
}

// NewEntryRepository creates a new PgxEntryRepository.
func NewEntryRepository(db *pgxpool.Pool) *PgxEntryRepository {
	return &PgxEntryRepository{db: db}
}

const entryColumns = `entry_id, book_id, amount, currency_code, notes, entry_date,
	normalized_amount, normalized_currency, conversion_rate, historical_rates,
	created_at, last_updated_at`

// SaveEntry inserts a new entry into the database.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID, m.BookID, m.Amount, m.CurrencyCode, m.Notes, m.EntryDate,
		m.NormalizedAmount, m.NormalizedCurrency, m.ConversionRate, m.HistoricalRates,
		m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting entry: %w", err)
	}
	return nil
}

// FindEntryByID retrieves a specific entry from the database.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_id = $1`
	m := models.Entry{}
	err := r.db.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID, &m.BookID, &m.Amount, &m.CurrencyCode, &m.Notes, &m.EntryDate,
		&m.NormalizedAmount, &m.NormalizedCurrency, &m.ConversionRate, &m.HistoricalRates,
		&m.CreatedAt, &m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding entry: %w", err)
	}
	entry := mapping.ToDomainEntry(m)
	return &entry, nil
}

// FindEntriesByBookID retrieves all entries belonging to a book, newest first.
func (r *PgxEntryRepository) FindEntriesByBookID(ctx context.Context, bookID string) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE book_id = $1 ORDER BY entry_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	defer rows.Close()

	var ms []models.Entry
	for rows.Next() {
		m := models.Entry{}
		if err := rows.Scan(
			&m.EntryID, &m.BookID, &m.Amount, &m.CurrencyCode, &m.Notes, &m.EntryDate,
			&m.NormalizedAmount, &m.NormalizedCurrency, &m.ConversionRate, &m.HistoricalRates,
			&m.CreatedAt, &m.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return mapping.ToDomainEntrySlice(ms), nil
}

// UpdateEntry updates an existing entry, including its normalized trio.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query := `
		UPDATE entries
		SET book_id = $2, amount = $3, currency_code = $4, notes = $5, entry_date = $6,
			normalized_amount = $7, normalized_currency = $8, conversion_rate = $9,
			historical_rates = $10, last_updated_at = $11
		WHERE entry_id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		m.EntryID, m.BookID, m.Amount, m.CurrencyCode, m.Notes, m.EntryDate,
		m.NormalizedAmount, m.NormalizedCurrency, m.ConversionRate,
		m.HistoricalRates, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error updating entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEntry removes an entry.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM entries WHERE entry_id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
