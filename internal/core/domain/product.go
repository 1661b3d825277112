package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus tracks the lifecycle of a stock batch.
type BatchStatus string

const (
	BatchActive   BatchStatus = "ACTIVE"
	BatchExpired  BatchStatus = "EXPIRED"
	BatchDepleted BatchStatus = "DEPLETED"
)

// Product is a catalog entry. Stock lives in batches, never on the product.
type Product struct {
	ProductID   string `db:"product_id" json:"productID"` // Primary Key (UUID)
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	GenericName string `db:"generic_name" json:"genericName"`
	Category    string `db:"category" json:"category"`
	AuditFields
}

// Warehouse is a physical stock location.
type Warehouse struct {
	WarehouseID string `db:"warehouse_id" json:"warehouseID"`
	Name        string `db:"name" json:"name"`
	AuditFields
}

// Batch is one received lot of a product at a warehouse. Quantity must
// never go negative; any operation that would do so fails whole.
type Batch struct {
	BatchID       string          `db:"batch_id" json:"batchID"`
	ProductID     string          `db:"product_id" json:"productID"`
	WarehouseID   string          `db:"warehouse_id" json:"warehouseID"`
	BatchNumber   string          `db:"batch_number" json:"batchNumber"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	SellingPrice  decimal.Decimal `db:"selling_price" json:"sellingPrice"`
	ExpiryDate    time.Time       `db:"expiry_date" json:"expiryDate"`
	Status        BatchStatus     `db:"status" json:"status"`
	AuditFields
}

// RefreshStatus derives the batch status from quantity and expiry.
// Depletion wins over expiry so sold-out batches read as DEPLETED.
func (b *Batch) RefreshStatus(now time.Time) {
	switch {
	case b.Quantity == 0:
		b.Status = BatchDepleted
	case !b.ExpiryDate.IsZero() && b.ExpiryDate.Before(now):
		b.Status = BatchExpired
	default:
		b.Status = BatchActive
	}
}
