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

// PgxBookRepository implements the repositories.BookRepository interface using pgxpool.
type PgxBookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository creates a new PgxBookRepository.
func NewBookRepository(db *pgxpool.Pool) *PgxBookRepository {
	return &PgxBookRepository{db: db}
}

// SaveBook inserts a new book into the database.
func (r *PgxBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	m := mapping.ToModelBook(book)
	query := `
		INSERT INTO books (
			book_id, name, currency_code, locked_exchange_rate, target_currency_code, rate_locked_at,
			created_at, last_updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		m.BookID, m.Name, m.CurrencyCode, m.LockedExchangeRate, m.TargetCurrencyCode, m.RateLockedAt,
		m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting book: %w", err)
	}
	return nil
}

// FindBookByID retrieves a specific book from the database.
func (r *PgxBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `
		SELECT book_id, name, currency_code, locked_exchange_rate, target_currency_code, rate_locked_at,
			created_at, last_updated_at
		FROM books
		WHERE book_id = $1
	`
	m := models.Book{}
	err := r.db.QueryRow(ctx, query, bookID).Scan(
		&m.BookID, &m.Name, &m.CurrencyCode, &m.LockedExchangeRate, &m.TargetCurrencyCode, &m.RateLockedAt,
		&m.CreatedAt, &m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding book: %w", err)
	}
	book := mapping.ToDomainBook(m)
	return &book, nil
}

// ListBooks retrieves all books from the database.
func (r *PgxBookRepository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	query := `
		SELECT book_id, name, currency_code, locked_exchange_rate, target_currency_code, rate_locked_at,
			created_at, last_updated_at
		FROM books
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}
	defer rows.Close()

	var ms []models.Book
	for rows.Next() {
		m := models.Book{}
		if err := rows.Scan(
			&m.BookID, &m.Name, &m.CurrencyCode, &m.LockedExchangeRate, &m.TargetCurrencyCode, &m.RateLockedAt,
			&m.CreatedAt, &m.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning book row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}
	return mapping.ToDomainBookSlice(ms), nil
}

// UpdateBook updates an existing book.
func (r *PgxBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	m := mapping.ToModelBook(book)
	query := `
		UPDATE books
		SET name = $2, currency_code = $3, locked_exchange_rate = $4, target_currency_code = $5,
			rate_locked_at = $6, last_updated_at = $7
		WHERE book_id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		m.BookID, m.Name, m.CurrencyCode, m.LockedExchangeRate, m.TargetCurrencyCode,
		m.RateLockedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error updating book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteBook removes a book. Entries cascade via the FK constraint.
func (r *PgxBookRepository) DeleteBook(ctx context.Context, bookID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE book_id = $1`, bookID)
	if err != nil {
		return fmt.Errorf("error deleting book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
