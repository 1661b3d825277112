package services

// ServiceContainer aggregates the service facades handed to the HTTP
// layer, so route registration takes one dependency.
type ServiceContainer struct {
	Ledger  LedgerSvcFacade
	Catalog CatalogSvcFacade
	Deal    DealSvcFacade
	Sync    SyncSvcFacade
}
