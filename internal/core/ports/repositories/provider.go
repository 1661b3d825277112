package repositories

// RepositoryProvider bundles the local repositories plus the transaction
// manager they run under, so service construction takes one dependency.
type RepositoryProvider struct {
	TxManager TransactionManager
	Catalog   CatalogRepository
	Parties   PartyRepository
	Documents DocumentRepository
	Cash      CashRepository
	Deals     DealRepository
	Activity  ActivityRepository
	Sequences SequenceRepository
	Outbox    OutboxRepository
}
