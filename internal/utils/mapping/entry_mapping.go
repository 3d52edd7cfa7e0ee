package mapping

import (
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/models"
)

// ToModelEntry converts a domain Entry to a model Entry. The three normalized
// columns are written as a trio or not at all.
func ToModelEntry(d domain.Entry) models.Entry {
	m := models.Entry{
		EntryID:         d.EntryID,
		BookID:          d.BookID,
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		Notes:           d.Notes,
		EntryDate:       d.EntryDate,
		HistoricalRates: d.HistoricalRates,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.Normalized != nil {
		amount := d.Normalized.Amount
		rate := d.Normalized.Rate
		currency := d.Normalized.CurrencyCode
		m.NormalizedAmount = &amount
		m.ConversionRate = &rate
		m.NormalizedCurrency = &currency
	}
	return m
}

// ToDomainEntry converts a model Entry to a domain Entry. Rows with NULL
// normalized columns become unnormalized entries, converted on demand.
func ToDomainEntry(m models.Entry) domain.Entry {
	d := domain.Entry{
		EntryID:         m.EntryID,
		BookID:          m.BookID,
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		Notes:           m.Notes,
		EntryDate:       m.EntryDate,
		HistoricalRates: m.HistoricalRates,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.NormalizedAmount != nil && m.ConversionRate != nil && m.NormalizedCurrency != nil {
		d.Normalized = &domain.Normalization{
			Amount:       *m.NormalizedAmount,
			Rate:         *m.ConversionRate,
			CurrencyCode: *m.NormalizedCurrency,
		}
	}
	return d
}

// ToDomainEntrySlice converts a slice of model Entries to a slice of domain Entries
func ToDomainEntrySlice(ms []models.Entry) []domain.Entry {
	ds := make([]domain.Entry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntry(m)
	}
	return ds
}
