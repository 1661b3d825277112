package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tnvirji/pharmapos/internal/core/domain"
)

// SellItemRequest is one requested invoice line. UnitPrice overrides the
// batch selling price when set; zero means "use the batch price".
type SellItemRequest struct {
	BatchID            string          `json:"batchID" binding:"required"`
	Quantity           int64           `json:"quantity" binding:"required,gt=0"`
	BonusQuantity      int64           `json:"bonusQuantity" binding:"gte=0"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// SellRequest creates a sale or sale-return invoice.
type SellRequest struct {
	CustomerID string            `json:"customerID" binding:"required"`
	Items      []SellItemRequest `json:"items" binding:"required,min=1,dive"`
	CashPaid   decimal.Decimal   `json:"cashPaid"`
	IsReturn   bool              `json:"isReturn"`
	Notes      string            `json:"notes"`
}

// PurchaseItemRequest is one requested purchase line.
type PurchaseItemRequest struct {
	ProductID     string          `json:"productID" binding:"required"`
	WarehouseID   string          `json:"warehouseID" binding:"required"`
	BatchNumber   string          `json:"batchNumber" binding:"required"`
	Quantity      int64           `json:"quantity" binding:"required,gt=0"`
	BonusQuantity int64           `json:"bonusQuantity" binding:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	ExpiryDate    time.Time       `json:"expiryDate"`
}

// PurchaseRequest creates a purchase or purchase-return invoice.
type PurchaseRequest struct {
	SupplierID string                `json:"supplierID" binding:"required"`
	Items      []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	CashPaid   decimal.Decimal       `json:"cashPaid"`
	IsReturn   bool                  `json:"isReturn"`
	Notes      string                `json:"notes"`
}

// AdjustStockRequest applies a signed quantity delta to one batch.
type AdjustStockRequest struct {
	BatchID string `json:"batchID" binding:"required"`
	Delta   int64  `json:"delta" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// TransferStockRequest moves quantity between warehouses.
type TransferStockRequest struct {
	BatchID         string `json:"batchID" binding:"required"`
	DestWarehouseID string `json:"destWarehouseID" binding:"required"`
	Quantity        int64  `json:"quantity" binding:"required,gt=0"`
}

// CashRequest books a standalone cash register movement.
type CashRequest struct {
	Type        domain.CashType     `json:"type" binding:"required,oneof=RECEIPT EXPENSE"`
	Category    domain.CashCategory `json:"category" binding:"required,oneof=CUSTOMER_PAYMENT SUPPLIER_PAYMENT DEAL_COMMISSION GENERAL"`
	ReferenceID string              `json:"referenceID"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Notes       string              `json:"notes"`
}

// SellResponse returns the committed invoice to the caller.
type SellResponse struct {
	InvoiceID     string               `json:"invoiceID"`
	InvoiceNumber string               `json:"invoiceNumber"`
	NetTotal      decimal.Decimal      `json:"netTotal"`
	FinalBalance  decimal.Decimal      `json:"finalBalance"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Items         []domain.InvoiceItem `json:"items"`
}
