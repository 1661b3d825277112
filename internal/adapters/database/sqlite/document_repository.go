package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// DocumentRepository stores invoices and purchase invoices as
// self-contained rows: line items are serialized into the document so a
// historical invoice survives later catalog changes.
type DocumentRepository struct{}

// NewDocumentRepository creates the document repository.
func NewDocumentRepository() portsrepo.DocumentRepository {
	return &DocumentRepository{}
}

type invoiceRow struct {
	domain.Invoice
	ItemsJSON string `db:"items"`
}

type purchaseRow struct {
	domain.PurchaseInvoice
	ItemsJSON string `db:"items"`
}

func (r *DocumentRepository) SaveInvoice(ctx context.Context, q sqlx.ExtContext, invoice domain.Invoice) error {
	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("failed to encode invoice items for %s: %w", invoice.InvoiceID, err)
	}
	row := invoiceRow{Invoice: invoice, ItemsJSON: string(items)}
	query := `
		INSERT INTO invoices (invoice_id, invoice_number, customer_id, invoice_date, invoice_type,
			gross_total, discount_total, net_total, cash_paid, previous_balance, final_balance,
			payment_status, items, created_at, updated_at)
		VALUES (:invoice_id, :invoice_number, :customer_id, :invoice_date, :invoice_type,
			:gross_total, :discount_total, :net_total, :cash_paid, :previous_balance, :final_balance,
			:payment_status, :items, :created_at, :updated_at)
		ON CONFLICT (invoice_id) DO UPDATE SET
			payment_status = excluded.payment_status,
			cash_paid = excluded.cash_paid,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, row); err != nil {
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

func (r *DocumentRepository) FindInvoiceByID(ctx context.Context, q sqlx.ExtContext, invoiceID string) (*domain.Invoice, error) {
	var row invoiceRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT * FROM invoices WHERE invoice_id = ?;`, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if err := json.Unmarshal([]byte(row.ItemsJSON), &row.Invoice.Items); err != nil {
		return nil, fmt.Errorf("failed to decode invoice items for %s: %w", invoiceID, err)
	}
	return &row.Invoice, nil
}

func (r *DocumentRepository) ListInvoices(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Invoice, error) {
	rows := []invoiceRow{}
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT * FROM invoices ORDER BY created_at DESC LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	invoices := make([]domain.Invoice, 0, len(rows))
	for _, row := range rows {
		if err := json.Unmarshal([]byte(row.ItemsJSON), &row.Invoice.Items); err != nil {
			return nil, fmt.Errorf("failed to decode invoice items for %s: %w", row.InvoiceID, err)
		}
		invoices = append(invoices, row.Invoice)
	}
	return invoices, nil
}

func (r *DocumentRepository) SavePurchase(ctx context.Context, q sqlx.ExtContext, purchase domain.PurchaseInvoice) error {
	items, err := json.Marshal(purchase.Items)
	if err != nil {
		return fmt.Errorf("failed to encode purchase items for %s: %w", purchase.PurchaseID, err)
	}
	row := purchaseRow{PurchaseInvoice: purchase, ItemsJSON: string(items)}
	query := `
		INSERT INTO purchase_invoices (purchase_id, invoice_number, supplier_id, invoice_date, purchase_type,
			net_total, cash_paid, previous_balance, final_balance, payment_status, items, created_at, updated_at)
		VALUES (:purchase_id, :invoice_number, :supplier_id, :invoice_date, :purchase_type,
			:net_total, :cash_paid, :previous_balance, :final_balance, :payment_status, :items, :created_at, :updated_at)
		ON CONFLICT (purchase_id) DO UPDATE SET
			payment_status = excluded.payment_status,
			cash_paid = excluded.cash_paid,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, row); err != nil {
		return fmt.Errorf("failed to save purchase %s: %w", purchase.PurchaseID, err)
	}
	return nil
}

func (r *DocumentRepository) FindPurchaseByID(ctx context.Context, q sqlx.ExtContext, purchaseID string) (*domain.PurchaseInvoice, error) {
	var row purchaseRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT * FROM purchase_invoices WHERE purchase_id = ?;`, purchaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase %s: %w", purchaseID, err)
	}
	if err := json.Unmarshal([]byte(row.ItemsJSON), &row.PurchaseInvoice.Items); err != nil {
		return nil, fmt.Errorf("failed to decode purchase items for %s: %w", purchaseID, err)
	}
	return &row.PurchaseInvoice, nil
}

func (r *DocumentRepository) ListPurchases(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.PurchaseInvoice, error) {
	rows := []purchaseRow{}
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT * FROM purchase_invoices ORDER BY created_at DESC LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	purchases := make([]domain.PurchaseInvoice, 0, len(rows))
	for _, row := range rows {
		if err := json.Unmarshal([]byte(row.ItemsJSON), &row.PurchaseInvoice.Items); err != nil {
			return nil, fmt.Errorf("failed to decode purchase items for %s: %w", row.PurchaseID, err)
		}
		purchases = append(purchases, row.PurchaseInvoice)
	}
	return purchases, nil
}
