package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the local schema. Statements are idempotent so opening
// an existing database is a no-op.
func Migrate(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
            product_id TEXT PRIMARY KEY,
            code TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            generic_name TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS warehouses (
            warehouse_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS batches (
            batch_id TEXT PRIMARY KEY,
            product_id TEXT NOT NULL REFERENCES products(product_id),
            warehouse_id TEXT NOT NULL REFERENCES warehouses(warehouse_id),
            batch_number TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            purchase_price TEXT NOT NULL DEFAULT '0',
            selling_price TEXT NOT NULL DEFAULT '0',
            expiry_date TIMESTAMP,
            status TEXT NOT NULL DEFAULT 'ACTIVE',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL,
            UNIQUE (product_id, warehouse_id, batch_number)
        );`,
		`CREATE TABLE IF NOT EXISTS customers (
            customer_id TEXT PRIMARY KEY,
            code TEXT NOT NULL,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            opening_balance TEXT NOT NULL DEFAULT '0',
            current_balance TEXT NOT NULL DEFAULT '0',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS suppliers (
            supplier_id TEXT PRIMARY KEY,
            code TEXT NOT NULL,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            opening_balance TEXT NOT NULL DEFAULT '0',
            current_balance TEXT NOT NULL DEFAULT '0',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS invoices (
            invoice_id TEXT PRIMARY KEY,
            invoice_number TEXT NOT NULL UNIQUE,
            customer_id TEXT NOT NULL REFERENCES customers(customer_id),
            invoice_date TIMESTAMP NOT NULL,
            invoice_type TEXT NOT NULL,
            gross_total TEXT NOT NULL,
            discount_total TEXT NOT NULL,
            net_total TEXT NOT NULL,
            cash_paid TEXT NOT NULL DEFAULT '0',
            previous_balance TEXT NOT NULL,
            final_balance TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            items TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS purchase_invoices (
            purchase_id TEXT PRIMARY KEY,
            invoice_number TEXT NOT NULL UNIQUE,
            supplier_id TEXT NOT NULL REFERENCES suppliers(supplier_id),
            invoice_date TIMESTAMP NOT NULL,
            purchase_type TEXT NOT NULL,
            net_total TEXT NOT NULL,
            cash_paid TEXT NOT NULL DEFAULT '0',
            previous_balance TEXT NOT NULL,
            final_balance TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            items TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS cash_transactions (
            cash_id TEXT PRIMARY KEY,
            voucher_number TEXT NOT NULL,
            cash_type TEXT NOT NULL,
            category TEXT NOT NULL,
            reference_id TEXT NOT NULL DEFAULT '',
            amount TEXT NOT NULL,
            txn_date TIMESTAMP NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS deals (
            deal_id TEXT PRIMARY KEY,
            doctor_name TEXT NOT NULL,
            representative TEXT NOT NULL DEFAULT '',
            customer_ids TEXT NOT NULL DEFAULT '[]',
            cycles TEXT NOT NULL DEFAULT '[]',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS activity_log (
            activity_id TEXT PRIMARY KEY,
            action TEXT NOT NULL,
            entity TEXT NOT NULL,
            entity_id TEXT NOT NULL,
            detail TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS settings (
            setting_key TEXT PRIMARY KEY,
            setting_value TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS document_sequences (
            series TEXT NOT NULL,
            period TEXT NOT NULL,
            next_n INTEGER NOT NULL,
            PRIMARY KEY (series, period)
        );`,
		`CREATE TABLE IF NOT EXISTS outbox_entries (
            entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
            idempotency_key TEXT NOT NULL UNIQUE,
            action_type TEXT NOT NULL,
            payload TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'PENDING',
            retries INTEGER NOT NULL DEFAULT 0,
            error_log TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox_entries (status, entry_id);`,
		`CREATE INDEX IF NOT EXISTS idx_batches_product ON batches (product_id);`,
		`CREATE INDEX IF NOT EXISTS idx_batches_warehouse ON batches (warehouse_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate local schema: %w", err)
		}
	}
	return nil
}
