package domain

import "github.com/shopspring/decimal"

// Customer is a receivables party. CurrentBalance is maintained
// incrementally: opening balance plus the signed effect of every invoice
// and payment, applied in the same transaction as the document itself.
type Customer struct {
	CustomerID     string          `db:"customer_id" json:"customerID"`
	Code           string          `db:"code" json:"code"`
	Name           string          `db:"name" json:"name"`
	Phone          string          `db:"phone" json:"phone"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"openingBalance"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"currentBalance"`
	AuditFields
}

// Supplier is a payables party, balance maintained like Customer.
type Supplier struct {
	SupplierID     string          `db:"supplier_id" json:"supplierID"`
	Code           string          `db:"code" json:"code"`
	Name           string          `db:"name" json:"name"`
	Phone          string          `db:"phone" json:"phone"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"openingBalance"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"currentBalance"`
	AuditFields
}
