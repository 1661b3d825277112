package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/core/domain"
)

// CatalogRepository persists products, warehouses and batches.
type CatalogRepository interface {
	SaveProduct(ctx context.Context, q sqlx.ExtContext, product domain.Product) error
	FindProductByID(ctx context.Context, q sqlx.ExtContext, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Product, error)

	SaveWarehouse(ctx context.Context, q sqlx.ExtContext, warehouse domain.Warehouse) error
	FindWarehouseByID(ctx context.Context, q sqlx.ExtContext, warehouseID string) (*domain.Warehouse, error)

	SaveBatch(ctx context.Context, q sqlx.ExtContext, batch domain.Batch) error
	FindBatchByID(ctx context.Context, q sqlx.ExtContext, batchID string) (*domain.Batch, error)
	// FindBatchByKey locates a batch by its natural key; used by purchase
	// merge and stock transfer to find or create the destination lot.
	FindBatchByKey(ctx context.Context, q sqlx.ExtContext, productID, warehouseID, batchNumber string) (*domain.Batch, error)
	ListBatchesByProduct(ctx context.Context, q sqlx.ExtContext, productID string) ([]domain.Batch, error)
	ListBatchesByWarehouse(ctx context.Context, q sqlx.ExtContext, warehouseID string) ([]domain.Batch, error)
}

// PartyRepository persists customers and suppliers.
type PartyRepository interface {
	SaveCustomer(ctx context.Context, q sqlx.ExtContext, customer domain.Customer) error
	FindCustomerByID(ctx context.Context, q sqlx.ExtContext, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Customer, error)

	SaveSupplier(ctx context.Context, q sqlx.ExtContext, supplier domain.Supplier) error
	FindSupplierByID(ctx context.Context, q sqlx.ExtContext, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Supplier, error)
}

// DocumentRepository persists invoices and purchase invoices as
// self-contained documents with embedded line items.
type DocumentRepository interface {
	SaveInvoice(ctx context.Context, q sqlx.ExtContext, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, q sqlx.ExtContext, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Invoice, error)

	SavePurchase(ctx context.Context, q sqlx.ExtContext, purchase domain.PurchaseInvoice) error
	FindPurchaseByID(ctx context.Context, q sqlx.ExtContext, purchaseID string) (*domain.PurchaseInvoice, error)
	ListPurchases(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.PurchaseInvoice, error)
}

// CashRepository persists cash register movements.
type CashRepository interface {
	SaveCashTransaction(ctx context.Context, q sqlx.ExtContext, txn domain.CashTransaction) error
	FindCashTransactionByID(ctx context.Context, q sqlx.ExtContext, cashID string) (*domain.CashTransaction, error)
	ListCashTransactions(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.CashTransaction, error)
}

// DealRepository persists commission deals with their cycle history.
type DealRepository interface {
	SaveDeal(ctx context.Context, q sqlx.ExtContext, deal domain.Deal) error
	FindDealByID(ctx context.Context, q sqlx.ExtContext, dealID string) (*domain.Deal, error)
	ListDeals(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Deal, error)
}

// ActivityRepository persists the audit trail and replicated settings.
type ActivityRepository interface {
	SaveActivity(ctx context.Context, q sqlx.ExtContext, entry domain.ActivityLog) error
	ListActivities(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.ActivityLog, error)

	SaveSetting(ctx context.Context, q sqlx.ExtContext, setting domain.Setting) error
	FindSetting(ctx context.Context, q sqlx.ExtContext, key string) (*domain.Setting, error)
}

// SequenceRepository allocates document numbers. NextNumber must be
// called inside the same transaction as the insert that consumes the
// number; the per-period counter row makes allocation collision-free
// even with more than one writer process.
type SequenceRepository interface {
	NextNumber(ctx context.Context, q sqlx.ExtContext, series domain.Series, period string) (int64, error)
}

// OutboxRepository is the durable replication log. Append is called only
// by ledger operations (inside their transaction); the status mutators
// are called only by the sync engine.
type OutboxRepository interface {
	Append(ctx context.Context, q sqlx.ExtContext, entry *domain.OutboxEntry) error
	ListPending(ctx context.Context, q sqlx.ExtContext, limit int) ([]domain.OutboxEntry, error)
	FindByID(ctx context.Context, q sqlx.ExtContext, entryID int64) (*domain.OutboxEntry, error)

	MarkSynced(ctx context.Context, q sqlx.ExtContext, entryID int64) error
	// MarkRetry increments the retry counter and records errMsg; past the
	// retry ceiling the entry flips to FAILED instead.
	MarkRetry(ctx context.Context, q sqlx.ExtContext, entryID int64, errMsg string) error
	MarkFailed(ctx context.Context, q sqlx.ExtContext, entryID int64, errMsg string) error
	// Requeue resets a FAILED entry to PENDING for manual intervention.
	Requeue(ctx context.Context, q sqlx.ExtContext, entryID int64) error

	Depth(ctx context.Context, q sqlx.ExtContext) (domain.QueueDepth, error)
}
