package domain_test

import (
	"testing"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestEntry_IsNormalized(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.Entry
		want  bool
	}{
		{
			name:  "legacy entry without normalized fields",
			entry: domain.Entry{Amount: 100.0, CurrencyCode: "EUR"},
			want:  false,
		},
		{
			name: "normalized entry",
			entry: domain.Entry{
				Amount:       100.0,
				CurrencyCode: "EUR",
				Normalized:   &domain.Normalization{Amount: 110.0, Rate: 1.1, CurrencyCode: "USD"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsNormalized())
		})
	}
}

func TestEntry_NormalizationConsistent(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.Entry
		want  bool
	}{
		{
			name:  "no normalized fields is trivially consistent",
			entry: domain.Entry{Amount: 100.0},
			want:  true,
		},
		{
			name: "amount matches amount*rate",
			entry: domain.Entry{
				Amount:     100.0,
				Normalized: &domain.Normalization{Amount: 110.0, Rate: 1.1, CurrencyCode: "USD"},
			},
			want: true,
		},
		{
			name: "float noise within tolerance",
			entry: domain.Entry{
				Amount:     100.0,
				Normalized: &domain.Normalization{Amount: 100 * 1.1, Rate: 1.1, CurrencyCode: "USD"},
			},
			want: true,
		},
		{
			name: "corrupted cache detected",
			entry: domain.Entry{
				Amount:     100.0,
				Normalized: &domain.Normalization{Amount: 95.0, Rate: 1.1, CurrencyCode: "USD"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.NormalizationConsistent())
		})
	}
}

func TestBook_HasValidLock(t *testing.T) {
	tests := []struct {
		name            string
		book            domain.Book
		defaultCurrency string
		want            bool
	}{
		{
			name:            "no lock",
			book:            domain.Book{CurrencyCode: "EUR"},
			defaultCurrency: "USD",
			want:            false,
		},
		{
			name: "lock targeting the current default",
			book: domain.Book{
				CurrencyCode:       "EUR",
				LockedRate:         floatPtr(1.1),
				TargetCurrencyCode: "USD",
			},
			defaultCurrency: "USD",
			want:            true,
		},
		{
			name: "lock stale after default currency change",
			book: domain.Book{
				CurrencyCode:       "EUR",
				LockedRate:         floatPtr(1.1),
				TargetCurrencyCode: "USD",
			},
			defaultCurrency: "INR",
			want:            false,
		},
		{
			name: "degenerate self-lock rejected",
			book: domain.Book{
				CurrencyCode:       "USD",
				LockedRate:         floatPtr(1.0),
				TargetCurrencyCode: "USD",
			},
			defaultCurrency: "USD",
			want:            false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.book.HasValidLock(tt.defaultCurrency))
		})
	}
}

func TestIsUsableRate(t *testing.T) {
	assert.True(t, domain.IsUsableRate(1.1))
	assert.True(t, domain.IsUsableRate(0.0001))
	assert.False(t, domain.IsUsableRate(0))
	assert.False(t, domain.IsUsableRate(-1.5))
}

func TestRatesEqual_Tolerance(t *testing.T) {
	assert.True(t, domain.RatesEqual(1.1, 1.1))
	assert.True(t, domain.RatesEqual(1.1, 1.1+1e-12))
	assert.False(t, domain.RatesEqual(1.05, 1.10))
}
