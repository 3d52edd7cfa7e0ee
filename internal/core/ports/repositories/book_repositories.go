package repositories

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// BookRepository defines the persistence operations for Books.
type BookRepository interface {
	SaveBook(ctx context.Context, book domain.Book) error
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	UpdateBook(ctx context.Context, book domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}
