package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashType is the direction of a cash register movement.
type CashType string

const (
	CashReceipt CashType = "RECEIPT"
	CashExpense CashType = "EXPENSE"
)

// CashCategory classifies what a cash movement settles. Payment
// categories additionally adjust the referenced party's balance inside
// the same transaction.
type CashCategory string

const (
	CashCustomerPayment CashCategory = "CUSTOMER_PAYMENT"
	CashSupplierPayment CashCategory = "SUPPLIER_PAYMENT"
	CashDealCommission  CashCategory = "DEAL_COMMISSION"
	CashGeneral         CashCategory = "GENERAL"
)

// CashTransaction is one cash register movement. It may stand alone or be
// the cash leg of an invoice, purchase or deal (ReferenceID links back).
type CashTransaction struct {
	CashID        string          `db:"cash_id" json:"cashID"`
	VoucherNumber string          `db:"voucher_number" json:"voucherNumber"`
	Type          CashType        `db:"cash_type" json:"type"`
	Category      CashCategory    `db:"category" json:"category"`
	ReferenceID   string          `db:"reference_id" json:"referenceID"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	TxnDate       time.Time       `db:"txn_date" json:"txnDate"`
	Notes         string          `db:"notes" json:"notes"`
	AuditFields
}
