package services

import (
	"context"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
)

// AggregationSvcFacade sums entries into income/expense/balance totals in the
// user's current default currency. It consumes cached normalized amounts,
// repairing stale ones on the fly (read-only) via the consistency auditor.
type AggregationSvcFacade interface {
	// Aggregate computes totals for one book, or across all books when
	// bookID is AggregateAll.
	Aggregate(ctx context.Context, bookID string) (*domain.BookTotals, error)

	// EffectiveAmount reconciles a single entry for row-level display.
	EffectiveAmount(ctx context.Context, entryID string) (float64, error)
}

// AggregateAll selects cross-book aggregation.
const AggregateAll = "all"
