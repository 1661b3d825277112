package repositories

import (
	"context"
	"fmt"

	"github.com/tnvirji/pharmapos/internal/core/domain"
)

// RemoteStore is the authoritative backend. Every push is an idempotent
// upsert keyed by the local entity id, with the session's tenant scope
// injected into the row server-side of this interface; callers never
// supply a tenant column themselves.
type RemoteStore interface {
	PushProduct(ctx context.Context, session *domain.Session, product domain.Product) error
	PushBatch(ctx context.Context, session *domain.Session, batch domain.Batch) error
	PushCustomer(ctx context.Context, session *domain.Session, customer domain.Customer) error
	PushSupplier(ctx context.Context, session *domain.Session, supplier domain.Supplier) error
	PushWarehouse(ctx context.Context, session *domain.Session, warehouse domain.Warehouse) error
	// PushInvoice upserts the header and fully replaces the line rows
	// (delete by invoice id, then bulk insert), so replays cannot
	// duplicate lines.
	PushInvoice(ctx context.Context, session *domain.Session, invoice domain.Invoice) error
	PushPurchase(ctx context.Context, session *domain.Session, purchase domain.PurchaseInvoice) error
	PushCashTransaction(ctx context.Context, session *domain.Session, txn domain.CashTransaction) error
	PushDeal(ctx context.Context, session *domain.Session, deal domain.Deal) error
	PushActivity(ctx context.Context, session *domain.Session, entry domain.ActivityLog) error
	PushSetting(ctx context.Context, session *domain.Session, setting domain.Setting) error

	// EnsureProfile provisions or repairs the remote account profile for
	// the session's tenant; used once per pass after a permission failure.
	EnsureProfile(ctx context.Context, session *domain.Session) error
}

// DependencyError reports a remote foreign-key violation: a row the push
// refers to does not exist remotely yet. The sync engine repairs it by
// pushing the missing dependency first, then retrying once in-process.
type DependencyError struct {
	Constraint string // remote constraint name, for the error log
	Table      string // remote table the missing row belongs to
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("remote dependency missing: table %s (constraint %s)", e.Table, e.Constraint)
}

// PermissionError reports a remote permission or policy rejection.
type PermissionError struct {
	Detail string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("remote permission denied: %s", e.Detail)
}
