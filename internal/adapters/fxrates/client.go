package fxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
)

// LockSource resolves a book-level locked rate for a currency pair. A nil
// LockSource means every lookup goes to the remote API.
type LockSource interface {
	LockedRate(ctx context.Context, bookID, fromCurrency, toCurrency string) (float64, bool)
}

// Client fetches exchange rates from a Frankfurter-compatible HTTP API.
// Lookups for a known book consult the LockSource first so a locked book
// never pays for (or drifts with) a live quote.
type Client struct {
	baseURL    string
	httpClient *http.Client
	locks      LockSource
}

var _ ports.RateProvider = (*Client)(nil)

// NewClient creates a rate client against baseURL, e.g.
// "https://api.frankfurter.dev/v1".
func NewClient(baseURL string, timeout time.Duration, locks LockSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		locks:      locks,
	}
}

// latestResponse mirrors the wire format of the /latest endpoint.
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// GetRate returns the conversion rate from fromCurrency to toCurrency,
// preferring the book's locked rate when bookID names a locked book.
func (c *Client) GetRate(ctx context.Context, fromCurrency, toCurrency, bookID string) (float64, error) {
	if fromCurrency == toCurrency {
		return 1.0, nil
	}
	if c.locks != nil && bookID != "" {
		if rate, ok := c.locks.LockedRate(ctx, bookID, fromCurrency, toCurrency); ok {
			return rate, nil
		}
	}

	body, err := c.fetchLatest(ctx, fromCurrency, toCurrency)
	if err != nil {
		return 0, err
	}
	rate, ok := body.Rates[toCurrency]
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in response for base %s", apperrors.ErrRateUnavailable, toCurrency, fromCurrency)
	}
	if !domain.IsUsableRate(rate) {
		return 0, fmt.Errorf("%w: unusable rate %v for %s->%s", apperrors.ErrRateUnavailable, rate, fromCurrency, toCurrency)
	}
	return rate, nil
}

// CaptureSnapshot returns the full rate table for baseCurrency.
func (c *Client) CaptureSnapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error) {
	body, err := c.fetchLatest(ctx, baseCurrency, "")
	if err != nil {
		return nil, err
	}
	asOf, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		asOf = time.Now().UTC()
	}
	return &domain.RateSnapshot{
		BaseCurrency: baseCurrency,
		AsOf:         asOf,
		Rates:        body.Rates,
	}, nil
}

// fetchLatest calls GET {base}/latest?base=X[&symbols=Y]. All failures wrap
// apperrors.ErrRateUnavailable so callers can treat transport, protocol and
// decode errors uniformly.
func (c *Client) fetchLatest(ctx context.Context, base, symbol string) (*latestResponse, error) {
	q := url.Values{}
	q.Set("base", base)
	if symbol != "" {
		q.Set("symbols", symbol)
	}
	reqURL := fmt.Sprintf("%s/latest?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: rate API returned status %d", apperrors.ErrRateUnavailable, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", apperrors.ErrRateUnavailable, err)
	}
	return &body, nil
}
