// Package pgsql implements the remote store client: idempotent
// upsert-by-id writes against the authoritative Postgres backend, with
// the session's tenant scope injected into every row.
package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// RemoteStore pushes committed local operations to the remote Postgres
// system of record.
type RemoteStore struct {
	pool *pgxpool.Pool
}

// NewRemoteStore creates a remote store client over an existing pool.
func NewRemoteStore(pool *pgxpool.Pool) portsrepo.RemoteStore {
	return &RemoteStore{pool: pool}
}

var _ portsrepo.RemoteStore = (*RemoteStore)(nil)

func (r *RemoteStore) PushProduct(ctx context.Context, session *domain.Session, product domain.Product) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, company_id, code, name, generic_name, category, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			generic_name = EXCLUDED.generic_name,
			category = EXCLUDED.category,
			updated_at = EXCLUDED.updated_at;
	`, product.ProductID, session.TenantID, product.Code, product.Name, product.GenericName, product.Category, product.UpdatedAt)
	if err != nil {
		return classifyError("failed to push product", err)
	}
	return nil
}

func (r *RemoteStore) PushBatch(ctx context.Context, session *domain.Session, batch domain.Batch) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO batches (id, company_id, product_id, warehouse_id, batch_number, quantity,
			purchase_price, selling_price, expiry_date, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			purchase_price = EXCLUDED.purchase_price,
			selling_price = EXCLUDED.selling_price,
			expiry_date = EXCLUDED.expiry_date,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at;
	`, batch.BatchID, session.TenantID, batch.ProductID, batch.WarehouseID, batch.BatchNumber,
		batch.Quantity, batch.PurchasePrice, batch.SellingPrice, batch.ExpiryDate, batch.Status, batch.UpdatedAt)
	if err != nil {
		return classifyError("failed to push batch", err)
	}
	return nil
}

func (r *RemoteStore) PushCustomer(ctx context.Context, session *domain.Session, customer domain.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, company_id, code, name, phone, opening_balance, current_balance, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			opening_balance = EXCLUDED.opening_balance,
			current_balance = EXCLUDED.current_balance,
			updated_at = EXCLUDED.updated_at;
	`, customer.CustomerID, session.TenantID, customer.Code, customer.Name, customer.Phone,
		customer.OpeningBalance, customer.CurrentBalance, customer.UpdatedAt)
	if err != nil {
		return classifyError("failed to push customer", err)
	}
	return nil
}

func (r *RemoteStore) PushSupplier(ctx context.Context, session *domain.Session, supplier domain.Supplier) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO suppliers (id, company_id, code, name, phone, opening_balance, current_balance, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			opening_balance = EXCLUDED.opening_balance,
			current_balance = EXCLUDED.current_balance,
			updated_at = EXCLUDED.updated_at;
	`, supplier.SupplierID, session.TenantID, supplier.Code, supplier.Name, supplier.Phone,
		supplier.OpeningBalance, supplier.CurrentBalance, supplier.UpdatedAt)
	if err != nil {
		return classifyError("failed to push supplier", err)
	}
	return nil
}

func (r *RemoteStore) PushWarehouse(ctx context.Context, session *domain.Session, warehouse domain.Warehouse) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO warehouses (id, company_id, name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at;
	`, warehouse.WarehouseID, session.TenantID, warehouse.Name, warehouse.UpdatedAt)
	if err != nil {
		return classifyError("failed to push warehouse", err)
	}
	return nil
}

// PushInvoice writes the header and fully replaces the normalized line
// rows in one remote transaction. Replays therefore converge: the header
// upserts, the old lines vanish, the same lines come back. The entry is
// only reported synced after the commit is confirmed.
func (r *RemoteStore) PushInvoice(ctx context.Context, session *domain.Session, invoice domain.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classifyError("failed to begin remote transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, company_id, invoice_number, customer_id, invoice_date, invoice_type,
			gross_total, discount_total, net_total, cash_paid, previous_balance, final_balance,
			payment_status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			payment_status = EXCLUDED.payment_status,
			cash_paid = EXCLUDED.cash_paid,
			updated_at = EXCLUDED.updated_at;
	`, invoice.InvoiceID, session.TenantID, invoice.InvoiceNumber, invoice.CustomerID, invoice.InvoiceDate,
		invoice.Type, invoice.GrossTotal, invoice.DiscountTotal, invoice.NetTotal, invoice.CashPaid,
		invoice.PreviousBalance, invoice.FinalBalance, invoice.PaymentStatus, invoice.UpdatedAt)
	if err != nil {
		return classifyError("failed to push invoice header", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM invoice_lines WHERE invoice_id = $1 AND company_id = $2;
	`, invoice.InvoiceID, session.TenantID); err != nil {
		return classifyError("failed to clear invoice lines", err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (invoice_id, company_id, line_no, product_id, batch_id, product_name,
			batch_number, quantity, bonus_quantity, unit_price, discount_percentage, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i, item := range invoice.Items {
		batch.Queue(lineQuery,
			invoice.InvoiceID, session.TenantID, i+1, item.ProductID, item.BatchID, item.ProductName,
			item.BatchNumber, item.Quantity, item.BonusQuantity, item.UnitPrice,
			item.DiscountPercentage, item.LineTotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return classifyError("failed to push invoice lines", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyError("failed to commit invoice push", err)
	}
	return nil
}

// PushPurchase mirrors PushInvoice against the purchase tables. Purchase
// lines are small enough to embed as a JSON document remotely as well.
func (r *RemoteStore) PushPurchase(ctx context.Context, session *domain.Session, purchase domain.PurchaseInvoice) error {
	items, err := json.Marshal(purchase.Items)
	if err != nil {
		return fmt.Errorf("failed to encode purchase items: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO purchase_invoices (id, company_id, invoice_number, supplier_id, invoice_date,
			purchase_type, net_total, cash_paid, previous_balance, final_balance, payment_status,
			items, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			payment_status = EXCLUDED.payment_status,
			cash_paid = EXCLUDED.cash_paid,
			items = EXCLUDED.items,
			updated_at = EXCLUDED.updated_at;
	`, purchase.PurchaseID, session.TenantID, purchase.InvoiceNumber, purchase.SupplierID,
		purchase.InvoiceDate, purchase.Type, purchase.NetTotal, purchase.CashPaid,
		purchase.PreviousBalance, purchase.FinalBalance, purchase.PaymentStatus, items, purchase.UpdatedAt)
	if err != nil {
		return classifyError("failed to push purchase", err)
	}
	return nil
}

func (r *RemoteStore) PushCashTransaction(ctx context.Context, session *domain.Session, txn domain.CashTransaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cash_transactions (id, company_id, voucher_number, cash_type, category,
			reference_id, amount, txn_date, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at;
	`, txn.CashID, session.TenantID, txn.VoucherNumber, txn.Type, txn.Category,
		txn.ReferenceID, txn.Amount, txn.TxnDate, txn.Notes, txn.UpdatedAt)
	if err != nil {
		return classifyError("failed to push cash transaction", err)
	}
	return nil
}

func (r *RemoteStore) PushDeal(ctx context.Context, session *domain.Session, deal domain.Deal) error {
	customerIDs, err := json.Marshal(deal.CustomerIDs)
	if err != nil {
		return fmt.Errorf("failed to encode deal customer ids: %w", err)
	}
	cycles, err := json.Marshal(deal.Cycles)
	if err != nil {
		return fmt.Errorf("failed to encode deal cycles: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO deals (id, company_id, doctor_name, representative, customer_ids, cycles, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			doctor_name = EXCLUDED.doctor_name,
			representative = EXCLUDED.representative,
			customer_ids = EXCLUDED.customer_ids,
			cycles = EXCLUDED.cycles,
			updated_at = EXCLUDED.updated_at;
	`, deal.DealID, session.TenantID, deal.DoctorName, deal.Representative, customerIDs, cycles, deal.UpdatedAt)
	if err != nil {
		return classifyError("failed to push deal", err)
	}
	return nil
}

func (r *RemoteStore) PushActivity(ctx context.Context, session *domain.Session, entry domain.ActivityLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_log (id, company_id, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`, entry.ActivityID, session.TenantID, entry.Action, entry.Entity, entry.EntityID, entry.Detail, entry.CreatedAt)
	if err != nil {
		return classifyError("failed to push activity", err)
	}
	return nil
}

func (r *RemoteStore) PushSetting(ctx context.Context, session *domain.Session, setting domain.Setting) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (company_id, setting_key, setting_value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, setting_key) DO UPDATE SET
			setting_value = EXCLUDED.setting_value,
			updated_at = EXCLUDED.updated_at;
	`, session.TenantID, setting.Key, setting.Value, setting.UpdatedAt)
	if err != nil {
		return classifyError("failed to push setting", err)
	}
	return nil
}

// EnsureProfile provisions or repairs the remote account profile for the
// session's tenant. Called once per sync pass at most, after a
// permission failure.
func (r *RemoteStore) EnsureProfile(ctx context.Context, session *domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (company_id, user_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at;
	`, session.TenantID, session.UserID, time.Now().UTC())
	if err != nil {
		return classifyError("failed to ensure remote profile", err)
	}
	return nil
}
