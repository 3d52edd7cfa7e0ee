package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Book        BookSvcFacade
	Entry       EntrySvcFacade
	Currency    CurrencySvcFacade
	Transfer    TransferSvcFacade
	Aggregation AggregationSvcFacade
	Settings    SettingsSvcFacade
	Fx          NormalizerSvc
}
