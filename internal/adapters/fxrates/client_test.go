package fxrates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrackd/fintrack_app/internal/adapters/fxrates"
	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLockSource struct {
	bookID string
	from   string
	to     string
	rate   float64
}

func (s *staticLockSource) LockedRate(ctx context.Context, bookID, fromCurrency, toCurrency string) (float64, bool) {
	if bookID == s.bookID && fromCurrency == s.from && toCurrency == s.to {
		return s.rate, true
	}
	return 0, false
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetRate_Success(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		assert.Equal(t, "USD", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-06-02","rates":{"USD":1.0912}}`))
	})

	client := fxrates.NewClient(srv.URL, 5*time.Second, nil)
	rate, err := client.GetRate(context.Background(), "EUR", "USD", "")

	require.NoError(t, err)
	assert.Equal(t, 1.0912, rate)
}

func TestClient_GetRate_SameCurrencyShortCircuits(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no HTTP call expected for a same-currency pair")
	})

	client := fxrates.NewClient(srv.URL, 5*time.Second, nil)
	rate, err := client.GetRate(context.Background(), "USD", "USD", "")

	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestClient_GetRate_PrefersBookLock(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no HTTP call expected when the book's lock covers the pair")
	})

	locks := &staticLockSource{bookID: "b1", from: "EUR", to: "USD", rate: 1.1}
	client := fxrates.NewClient(srv.URL, 5*time.Second, locks)

	rate, err := client.GetRate(context.Background(), "EUR", "USD", "b1")

	require.NoError(t, err)
	assert.Equal(t, 1.1, rate)
}

func TestClient_GetRate_LockMissBypassesToAPI(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"GBP","date":"2025-06-02","rates":{"USD":1.25}}`))
	})

	locks := &staticLockSource{bookID: "b1", from: "EUR", to: "USD", rate: 1.1}
	client := fxrates.NewClient(srv.URL, 5*time.Second, locks)

	// Different pair than the lock covers.
	rate, err := client.GetRate(context.Background(), "GBP", "USD", "b1")

	require.NoError(t, err)
	assert.Equal(t, 1.25, rate)
}

func TestClient_GetRate_MissingSymbol(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-06-02","rates":{}}`))
	})

	client := fxrates.NewClient(srv.URL, 5*time.Second, nil)
	_, err := client.GetRate(context.Background(), "EUR", "USD", "")

	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestClient_GetRate_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client := fxrates.NewClient(srv.URL, 5*time.Second, nil)
	_, err := client.GetRate(context.Background(), "EUR", "USD", "")

	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestClient_GetRate_UnusableRateRejected(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-06-02","rates":{"USD":-1}}`))
	})

	client := fxrates.NewClient(srv.URL, 5*time.Second, nil)
	_, err := client.GetRate(context.Background(), "EUR", "USD", "")

	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestClient_CaptureSnapshot(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		assert.Empty(t, r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-06-02","rates":{"USD":1.0912,"GBP":0.851,"INR":91.2}}`))
	})

	client := fxrates.NewClient(srv.URL, 5*time.Second, nil)
	snapshot, err := client.CaptureSnapshot(context.Background(), "EUR")

	require.NoError(t, err)
	assert.Equal(t, "EUR", snapshot.BaseCurrency)
	assert.Equal(t, 2025, snapshot.AsOf.Year())
	assert.Len(t, snapshot.Rates, 3)
	assert.Equal(t, 91.2, snapshot.Rates["INR"])
}
