package services_test

import (
	"testing"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func normalizedEntry(amount, rate float64, currency, normalizedCurrency string) *domain.Entry {
	return &domain.Entry{
		EntryID:      "e1",
		BookID:       "b1",
		Amount:       amount,
		CurrencyCode: currency,
		Normalized: &domain.Normalization{
			Amount:       amount * rate,
			Rate:         rate,
			CurrencyCode: normalizedCurrency,
		},
	}
}

func TestReconcileCached_TrustsConsistentCache(t *testing.T) {
	book := lockedBook("b1", "EUR", 1.10, "USD")
	entry := normalizedEntry(100.0, 1.10, "EUR", "USD")

	effective, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileTrustedCache, outcome)
	assert.InDelta(t, 110.0, effective, 1e-9)
}

func TestReconcileCached_Idempotent(t *testing.T) {
	book := lockedBook("b1", "EUR", 1.10, "USD")
	entry := normalizedEntry(100.0, 1.10, "EUR", "USD")

	first, _ := services.ReconcileCached(entry, book, "USD")
	second, _ := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, first, second)
	// Pure read: the entry must be untouched.
	assert.Equal(t, 1.10, entry.Normalized.Rate)
}

func TestReconcileCached_StaleCacheRepairedFromLock(t *testing.T) {
	// Cache was written under an old lock of 1.05, the lock has since been
	// edited to 1.10. The read must follow the lock.
	book := lockedBook("b1", "EUR", 1.10, "USD")
	entry := normalizedEntry(100.0, 1.05, "EUR", "USD")

	effective, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileStaleRepaired, outcome)
	assert.InDelta(t, 110.0, effective, 1e-9)
	// Repair is read-only.
	assert.Equal(t, 1.05, entry.Normalized.Rate)
}

func TestReconcileCached_NearEqualRatesNotStale(t *testing.T) {
	book := lockedBook("b1", "EUR", 1.10, "USD")
	// Float noise within tolerance must not trigger a repair.
	entry := normalizedEntry(100.0, 1.10+1e-12, "EUR", "USD")

	_, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileTrustedCache, outcome)
}

func TestReconcileCached_SameCurrencyNoCache(t *testing.T) {
	book := &domain.Book{BookID: "b1", CurrencyCode: "USD"}
	entry := &domain.Entry{EntryID: "e1", BookID: "b1", Amount: 42.0, CurrencyCode: "USD"}

	effective, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileSameCurrency, outcome)
	assert.Equal(t, 42.0, effective)
}

func TestReconcileCached_LockWithoutCache(t *testing.T) {
	book := lockedBook("b1", "EUR", 1.10, "USD")
	entry := &domain.Entry{EntryID: "e1", BookID: "b1", Amount: 100.0, CurrencyCode: "EUR"}

	effective, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileUsedLock, outcome)
	assert.InDelta(t, 110.0, effective, 1e-9)
}

func TestReconcileCached_CacheInWrongCurrencyIgnored(t *testing.T) {
	// Normalized against EUR, but the default currency is now USD: the cache
	// is unusable and the lock takes over.
	book := lockedBook("b1", "GBP", 1.25, "USD")
	entry := normalizedEntry(80.0, 1.17, "GBP", "EUR")

	effective, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileUsedLock, outcome)
	assert.InDelta(t, 100.0, effective, 1e-9)
}

func TestReconcileCached_LegacyEntryNeedsLiveRate(t *testing.T) {
	book := &domain.Book{BookID: "b1", CurrencyCode: "EUR"}
	entry := &domain.Entry{EntryID: "e1", BookID: "b1", Amount: 100.0, CurrencyCode: "EUR"}

	effective, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileNeedsLiveRate, outcome)
	assert.Equal(t, 100.0, effective)
}

func TestReconcileCached_LockNotAppliedToForeignCurrencyEntry(t *testing.T) {
	// The entry's currency differs from the book's: the book's lock does not
	// cover it, even though the book is locked.
	book := lockedBook("b1", "EUR", 1.10, "USD")
	entry := &domain.Entry{EntryID: "e1", BookID: "b1", Amount: 100.0, CurrencyCode: "GBP"}

	_, outcome := services.ReconcileCached(entry, book, "USD")

	assert.Equal(t, services.ReconcileNeedsLiveRate, outcome)
}
