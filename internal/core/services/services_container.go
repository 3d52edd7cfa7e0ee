package services

import (
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
	"github.com/fintrackd/fintrack_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider ports.RateProvider, cache ports.TotalsCache) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The normalization engine and settings come first; everything that
	// touches amounts depends on them.
	container.Fx = NewFxService(provider)
	container.Settings = NewSettingsService(repos.SettingsRepo, repos.CurrencyRepo, cache, cfg.DefaultCurrency)

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Book = NewBookService(repos.BookRepo, repos.EntryRepo, repos.CurrencyRepo, container.Fx, container.Settings, cache)
	container.Entry = NewEntryService(repos.EntryRepo, repos.BookRepo, container.Fx, container.Settings, cache)
	container.Transfer = NewTransferService(repos.EntryRepo, repos.BookRepo, container.Fx, container.Settings, cache)
	container.Aggregation = NewAggregationService(repos.EntryRepo, repos.BookRepo, container.Fx, container.Settings, cache)

	return container
}
