package services

import (
	"log/slog"

	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/platform/config"
)

// NewServiceContainer wires the service facades over the shared
// repository set. The sync engine gets its own logger; everything else
// logs through the request-scoped middleware logger.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	remote portsrepo.RemoteStore,
	sessions portssvc.SessionSource,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(
		repos.TxManager,
		repos.Catalog,
		repos.Parties,
		repos.Documents,
		repos.Cash,
		repos.Sequences,
		repos.Outbox,
		repos.Activity,
	)
	container.Catalog = NewCatalogService(
		repos.TxManager,
		repos.Catalog,
		repos.Parties,
		repos.Outbox,
		repos.Activity,
	)
	container.Deal = NewDealService(
		repos.TxManager,
		repos.Deals,
		repos.Parties,
		repos.Cash,
		repos.Sequences,
		repos.Outbox,
		repos.Activity,
	)
	container.Sync = NewSyncService(
		repos.TxManager,
		repos.Outbox,
		repos.Catalog,
		repos.Parties,
		remote,
		sessions,
		logger.With(slog.String("component", "sync")),
		SyncOptions{
			Interval:    cfg.SyncInterval,
			BatchSize:   cfg.SyncBatchSize,
			CallTimeout: cfg.SyncCallTimeout,
		},
	)

	return container
}
