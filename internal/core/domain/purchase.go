package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseType distinguishes a purchase from a purchase return.
type PurchaseType string

const (
	PurchaseReceive PurchaseType = "PURCHASE"
	PurchaseReturn  PurchaseType = "RETURN"
)

// PurchaseItem is one line of a purchase invoice. A purchase line carries
// enough to create a batch if none exists for (product, warehouse, batch
// number); a return line only removes quantity from an existing batch.
type PurchaseItem struct {
	ProductID     string          `json:"productID"`
	WarehouseID   string          `json:"warehouseID"`
	BatchNumber   string          `json:"batchNumber"`
	Quantity      int64           `json:"quantity"`
	BonusQuantity int64           `json:"bonusQuantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	ExpiryDate    time.Time       `json:"expiryDate"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// PurchaseInvoice is a stock-in (or return-out) document against a supplier.
type PurchaseInvoice struct {
	PurchaseID      string          `db:"purchase_id" json:"purchaseID"`
	InvoiceNumber   string          `db:"invoice_number" json:"invoiceNumber"`
	SupplierID      string          `db:"supplier_id" json:"supplierID"`
	InvoiceDate     time.Time       `db:"invoice_date" json:"invoiceDate"`
	Type            PurchaseType    `db:"purchase_type" json:"type"`
	NetTotal        decimal.Decimal `db:"net_total" json:"netTotal"`
	CashPaid        decimal.Decimal `db:"cash_paid" json:"cashPaid"`
	PreviousBalance decimal.Decimal `db:"previous_balance" json:"previousBalance"`
	FinalBalance    decimal.Decimal `db:"final_balance" json:"finalBalance"`
	PaymentStatus   PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	Items           []PurchaseItem  `db:"-" json:"items"`
	AuditFields
}

// ComputePurchaseTotal fills line totals and returns the document net.
// Purchase lines have no discount; bonus quantity adds stock unbilled.
func ComputePurchaseTotal(items []PurchaseItem) (net decimal.Decimal, out []PurchaseItem) {
	out = make([]PurchaseItem, len(items))
	for i, it := range items {
		it.LineTotal = it.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity))
		net = net.Add(it.LineTotal)
		out[i] = it
	}
	return net, out
}
