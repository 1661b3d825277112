package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
)

// SyncOptions tunes the drain loop.
type SyncOptions struct {
	Interval    time.Duration // time between scheduled passes
	BatchSize   int           // max entries drained per pass
	CallTimeout time.Duration // per remote call
}

func (o SyncOptions) withDefaults() SyncOptions {
	if o.Interval <= 0 {
		o.Interval = 30 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 10 * time.Second
	}
	return o
}

// syncService drains the outbox against the remote store. One pass runs
// at a time; local transactions are never held across a network call:
// entries are snapshotted first, pushed remotely, then their status is
// written back in individual short statements.
type syncService struct {
	txm      portsrepo.TransactionManager
	outbox   portsrepo.OutboxRepository
	catalog  portsrepo.CatalogRepository
	parties  portsrepo.PartyRepository
	remote   portsrepo.RemoteStore
	sessions portssvc.SessionSource
	logger   *slog.Logger
	opts     SyncOptions

	running atomic.Bool
	trigger chan struct{}
}

// NewSyncService creates the sync engine.
func NewSyncService(
	txm portsrepo.TransactionManager,
	outbox portsrepo.OutboxRepository,
	catalog portsrepo.CatalogRepository,
	parties portsrepo.PartyRepository,
	remote portsrepo.RemoteStore,
	sessions portssvc.SessionSource,
	logger *slog.Logger,
	opts SyncOptions,
) portssvc.SyncSvcFacade {
	return &syncService{
		txm:      txm,
		outbox:   outbox,
		catalog:  catalog,
		parties:  parties,
		remote:   remote,
		sessions: sessions,
		logger:   logger,
		opts:     opts.withDefaults(),
		trigger:  make(chan struct{}, 1),
	}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// Run drains on a timer and on demand until ctx is cancelled.
func (s *syncService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.trigger:
		}
		if err := s.SyncPass(ctx); err != nil {
			s.logger.Error("sync pass failed", slog.String("error", err.Error()))
		}
	}
}

// TriggerSync requests a pass. The buffered channel coalesces triggers
// arriving while a pass is in flight into at most one follow-up pass.
func (s *syncService) TriggerSync() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// SyncPass drains one bounded batch of pending entries, oldest first.
// Without a valid session the pass is a no-op, not an error: offline or
// signed-out is a normal state for a local-first client.
func (s *syncService) SyncPass(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.running.Store(false)

	session, err := s.sessions.Session(ctx)
	if err != nil || !session.Valid(time.Now().UTC()) {
		return nil
	}

	entries, err := s.outbox.ListPending(ctx, s.txm.Reader(), s.opts.BatchSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var synced, retried, failed int
	profileRepaired := false
	for i := range entries {
		switch s.processEntry(ctx, session, &entries[i], &profileRepaired) {
		case domain.OutboxSynced:
			synced++
		case domain.OutboxFailed:
			failed++
		default:
			retried++
		}
	}
	s.logger.Info("sync pass completed",
		slog.Int("synced", synced),
		slog.Int("retried", retried),
		slog.Int("failed", failed),
	)
	return nil
}

// processEntry pushes one entry and settles its status. Returns the
// status the entry ended the pass in.
func (s *syncService) processEntry(ctx context.Context, session *domain.Session, entry *domain.OutboxEntry, profileRepaired *bool) domain.OutboxStatus {
	err := s.dispatch(ctx, session, entry)
	if err == nil {
		return s.settle(ctx, entry, domain.OutboxSynced, "")
	}

	var depErr *portsrepo.DependencyError
	var permErr *portsrepo.PermissionError
	switch {
	case errors.As(err, &depErr):
		// Push the missing dependency, then retry the entry once
		// in-process. The dependency's own outbox entry will drain later
		// as a no-op upsert.
		if rerr := s.repairDependencies(ctx, session, entry); rerr != nil {
			s.logger.Warn("dependency repair failed",
				slog.Int64("entry_id", entry.EntryID), slog.String("error", rerr.Error()))
			return s.settle(ctx, entry, domain.OutboxPending, rerr.Error())
		}
		if err = s.dispatch(ctx, session, entry); err == nil {
			return s.settle(ctx, entry, domain.OutboxSynced, "")
		}
		return s.settle(ctx, entry, domain.OutboxPending, err.Error())

	case errors.As(err, &permErr):
		// One profile repair per pass; a permission failure after repair
		// will not heal by waiting, so it dead-letters immediately.
		if *profileRepaired {
			return s.settle(ctx, entry, domain.OutboxFailed, err.Error())
		}
		*profileRepaired = true
		if rerr := s.remote.EnsureProfile(ctx, session); rerr != nil {
			return s.settle(ctx, entry, domain.OutboxFailed, rerr.Error())
		}
		if err = s.dispatch(ctx, session, entry); err == nil {
			return s.settle(ctx, entry, domain.OutboxSynced, "")
		}
		if errors.As(err, &permErr) {
			return s.settle(ctx, entry, domain.OutboxFailed, err.Error())
		}
		return s.settle(ctx, entry, domain.OutboxPending, err.Error())

	default:
		// Generic retryable failure, timeouts included. The retry
		// counter drives dead-lettering, not a growing delay.
		return s.settle(ctx, entry, domain.OutboxPending, err.Error())
	}
}

// settle writes the entry's end-of-pass status. Status writes are single
// statements against the store; they hold no transaction open.
func (s *syncService) settle(ctx context.Context, entry *domain.OutboxEntry, status domain.OutboxStatus, errMsg string) domain.OutboxStatus {
	var err error
	switch status {
	case domain.OutboxSynced:
		err = s.outbox.MarkSynced(ctx, s.txm.Reader(), entry.EntryID)
	case domain.OutboxFailed:
		err = s.outbox.MarkFailed(ctx, s.txm.Reader(), entry.EntryID, errMsg)
	default:
		err = s.outbox.MarkRetry(ctx, s.txm.Reader(), entry.EntryID, errMsg)
		if err == nil && entry.Retries+1 > domain.MaxSyncRetries {
			status = domain.OutboxFailed
		}
	}
	if err != nil {
		s.logger.Error("failed to settle outbox entry",
			slog.Int64("entry_id", entry.EntryID), slog.String("error", err.Error()))
	}
	return status
}

// dispatch routes one entry to its remote handler by action type. The
// switch covers the whole closed set; an unknown action is a programming
// error, reported rather than skipped.
func (s *syncService) dispatch(ctx context.Context, session *domain.Session, entry *domain.OutboxEntry) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	switch entry.Action {
	case domain.ActionUpsertProduct:
		var product domain.Product
		if err := json.Unmarshal(entry.Payload, &product); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushProduct(ctx, session, product)
	case domain.ActionUpsertBatch:
		var batch domain.Batch
		if err := json.Unmarshal(entry.Payload, &batch); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushBatch(ctx, session, batch)
	case domain.ActionUpsertCustomer:
		var customer domain.Customer
		if err := json.Unmarshal(entry.Payload, &customer); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushCustomer(ctx, session, customer)
	case domain.ActionUpsertSupplier:
		var supplier domain.Supplier
		if err := json.Unmarshal(entry.Payload, &supplier); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushSupplier(ctx, session, supplier)
	case domain.ActionUpsertWarehouse:
		var warehouse domain.Warehouse
		if err := json.Unmarshal(entry.Payload, &warehouse); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushWarehouse(ctx, session, warehouse)
	case domain.ActionUpsertInvoice:
		var invoice domain.Invoice
		if err := json.Unmarshal(entry.Payload, &invoice); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushInvoice(ctx, session, invoice)
	case domain.ActionUpsertPurchase:
		var purchase domain.PurchaseInvoice
		if err := json.Unmarshal(entry.Payload, &purchase); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushPurchase(ctx, session, purchase)
	case domain.ActionUpsertCash:
		var txn domain.CashTransaction
		if err := json.Unmarshal(entry.Payload, &txn); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushCashTransaction(ctx, session, txn)
	case domain.ActionUpsertDeal:
		var deal domain.Deal
		if err := json.Unmarshal(entry.Payload, &deal); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushDeal(ctx, session, deal)
	case domain.ActionInsertActivity:
		var activity domain.ActivityLog
		if err := json.Unmarshal(entry.Payload, &activity); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushActivity(ctx, session, activity)
	case domain.ActionUpsertSetting:
		var setting domain.Setting
		if err := json.Unmarshal(entry.Payload, &setting); err != nil {
			return fmt.Errorf("corrupt payload for entry %d: %w", entry.EntryID, err)
		}
		return s.remote.PushSetting(ctx, session, setting)
	}
	return fmt.Errorf("no handler for action type %q (entry %d)", entry.Action, entry.EntryID)
}

// repairDependencies pushes the entities an entry's payload references,
// reading current local state. Out-of-order pushes are safe: when the
// dependency's own entry drains it resolves to a no-op upsert.
func (s *syncService) repairDependencies(ctx context.Context, session *domain.Session, entry *domain.OutboxEntry) error {
	reader := s.txm.Reader()
	switch entry.Action {
	case domain.ActionUpsertBatch:
		var batch domain.Batch
		if err := json.Unmarshal(entry.Payload, &batch); err != nil {
			return err
		}
		if err := s.pushProductByID(ctx, session, batch.ProductID); err != nil {
			return err
		}
		return s.pushWarehouseByID(ctx, session, batch.WarehouseID)

	case domain.ActionUpsertInvoice:
		var invoice domain.Invoice
		if err := json.Unmarshal(entry.Payload, &invoice); err != nil {
			return err
		}
		customer, err := s.parties.FindCustomerByID(ctx, reader, invoice.CustomerID)
		if err != nil {
			return err
		}
		if err := s.remote.PushCustomer(ctx, session, *customer); err != nil {
			return err
		}
		for _, item := range invoice.Items {
			if err := s.pushProductByID(ctx, session, item.ProductID); err != nil {
				return err
			}
			if err := s.pushBatchByID(ctx, session, item.BatchID); err != nil {
				return err
			}
		}
		return nil

	case domain.ActionUpsertPurchase:
		var purchase domain.PurchaseInvoice
		if err := json.Unmarshal(entry.Payload, &purchase); err != nil {
			return err
		}
		supplier, err := s.parties.FindSupplierByID(ctx, reader, purchase.SupplierID)
		if err != nil {
			return err
		}
		if err := s.remote.PushSupplier(ctx, session, *supplier); err != nil {
			return err
		}
		for _, item := range purchase.Items {
			if err := s.pushProductByID(ctx, session, item.ProductID); err != nil {
				return err
			}
		}
		return nil

	case domain.ActionUpsertDeal:
		var deal domain.Deal
		if err := json.Unmarshal(entry.Payload, &deal); err != nil {
			return err
		}
		for _, customerID := range deal.CustomerIDs {
			customer, err := s.parties.FindCustomerByID(ctx, reader, customerID)
			if err != nil {
				return err
			}
			if err := s.remote.PushCustomer(ctx, session, *customer); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("no repairable dependencies for action type %q", entry.Action)
}

func (s *syncService) pushProductByID(ctx context.Context, session *domain.Session, productID string) error {
	product, err := s.catalog.FindProductByID(ctx, s.txm.Reader(), productID)
	if err != nil {
		return err
	}
	return s.remote.PushProduct(ctx, session, *product)
}

func (s *syncService) pushBatchByID(ctx context.Context, session *domain.Session, batchID string) error {
	batch, err := s.catalog.FindBatchByID(ctx, s.txm.Reader(), batchID)
	if err != nil {
		return err
	}
	return s.remote.PushBatch(ctx, session, *batch)
}

func (s *syncService) pushWarehouseByID(ctx context.Context, session *domain.Session, warehouseID string) error {
	warehouse, err := s.catalog.FindWarehouseByID(ctx, s.txm.Reader(), warehouseID)
	if err != nil {
		return err
	}
	return s.remote.PushWarehouse(ctx, session, *warehouse)
}

func (s *syncService) QueueDepth(ctx context.Context) (domain.QueueDepth, error) {
	return s.outbox.Depth(ctx, s.txm.Reader())
}

func (s *syncService) RequeueFailed(ctx context.Context, entryID int64) error {
	return s.outbox.Requeue(ctx, s.txm.Reader(), entryID)
}
