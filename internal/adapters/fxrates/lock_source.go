package fxrates

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
)

// RepositoryLockSource answers lock lookups from the book repository. A lock
// only applies when it covers exactly the requested pair.
type RepositoryLockSource struct {
	books portsrepo.BookRepository
}

var _ LockSource = (*RepositoryLockSource)(nil)

// NewRepositoryLockSource creates a LockSource backed by the book repository.
func NewRepositoryLockSource(books portsrepo.BookRepository) *RepositoryLockSource {
	return &RepositoryLockSource{books: books}
}

// LockedRate returns the book's locked rate when the book exists, is locked,
// and the lock covers fromCurrency -> toCurrency. Lookup failures are treated
// as "no lock"; the caller falls through to a live quote.
func (s *RepositoryLockSource) LockedRate(ctx context.Context, bookID, fromCurrency, toCurrency string) (float64, bool) {
	book, err := s.books.FindBookByID(ctx, bookID)
	if err != nil {
		return 0, false
	}
	if book.LockedRate == nil ||
		book.CurrencyCode != fromCurrency ||
		book.TargetCurrencyCode != toCurrency ||
		fromCurrency == toCurrency {
		return 0, false
	}
	if !domain.IsUsableRate(*book.LockedRate) {
		return 0, false
	}
	return *book.LockedRate, true
}
