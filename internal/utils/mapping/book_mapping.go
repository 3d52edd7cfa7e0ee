package mapping

import (
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/models"
)

// ToModelBook converts a domain Book to a model Book
func ToModelBook(d domain.Book) models.Book {
	m := models.Book{
		BookID:             d.BookID,
		Name:               d.Name,
		CurrencyCode:       d.CurrencyCode,
		LockedExchangeRate: d.LockedRate,
		RateLockedAt:       d.RateLockedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.TargetCurrencyCode != "" {
		target := d.TargetCurrencyCode
		m.TargetCurrencyCode = &target
	}
	return m
}

// ToDomainBook converts a model Book to a domain Book
func ToDomainBook(m models.Book) domain.Book {
	d := domain.Book{
		BookID:       m.BookID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		LockedRate:   m.LockedExchangeRate,
		RateLockedAt: m.RateLockedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.TargetCurrencyCode != nil {
		d.TargetCurrencyCode = *m.TargetCurrencyCode
	}
	return d
}

// ToDomainBookSlice converts a slice of model Books to a slice of domain Books
func ToDomainBookSlice(ms []models.Book) []domain.Book {
	ds := make([]domain.Book, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBook(m)
	}
	return ds
}
