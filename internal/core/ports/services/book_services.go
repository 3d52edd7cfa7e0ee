package services

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/dto"
)

// BookReaderSvc defines read operations for books
type BookReaderSvc interface {
	// GetBookByID retrieves a specific book.
	GetBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves all books.
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

// BookWriterSvc defines write operations for books
type BookWriterSvc interface {
	// CreateBook creates a new book and locks its exchange rate against the
	// user's current default currency.
	CreateBook(ctx context.Context, req dto.CreateBookRequest) (*domain.Book, error)

	// UpdateBook updates mutable book fields (name).
	UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest) (*domain.Book, error)

	// DeleteBook removes a book and its entries.
	DeleteBook(ctx context.Context, bookID string) error
}

// BookRateLockSvc defines the locked-exchange-rate operations on a book.
type BookRateLockSvc interface {
	// LockRate overwrites the book's locked rate with a user-supplied value
	// and renormalizes the book's entries. A rate deviating more than 10%
	// from the freshly fetched API rate requires req.Confirmed.
	LockRate(ctx context.Context, bookID string, req dto.LockRateRequest) (*domain.Book, error)

	// ChangeCurrency switches the book to a new currency, refreshes the lock
	// and renormalizes the book's entries. Entry currencies are not rewritten.
	ChangeCurrency(ctx context.Context, bookID string, req dto.ChangeCurrencyRequest) (*domain.Book, error)
}

// BookSvcFacade combines all book-related service interfaces
type BookSvcFacade interface {
	BookReaderSvc
	BookWriterSvc
	BookRateLockSvc
}
