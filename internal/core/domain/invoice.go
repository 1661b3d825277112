package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes a sale from a sale return.
type InvoiceType string

const (
	InvoiceSale   InvoiceType = "SALE"
	InvoiceReturn InvoiceType = "RETURN"
)

// PaymentStatus reflects how much of an invoice's net total was settled
// in cash at the time it was written.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentUnpaid  PaymentStatus = "UNPAID"
)

// InvoiceItem is one line of an invoice. Items are denormalized: price,
// cost and product name are frozen at write time, so the document stays
// readable even after the batch or product changes or disappears.
type InvoiceItem struct {
	ProductID          string          `json:"productID"`
	BatchID            string          `json:"batchID"`
	ProductName        string          `json:"productName"`
	BatchNumber        string          `json:"batchNumber"`
	Quantity           int64           `json:"quantity"`
	BonusQuantity      int64           `json:"bonusQuantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	LineTotal          decimal.Decimal `json:"lineTotal"`
}

// GrossAmount is quantity times unit price before discount. Bonus
// quantity moves stock but is never billed.
func (it InvoiceItem) GrossAmount() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// DiscountAmount is the discount portion of the line's gross amount.
func (it InvoiceItem) DiscountAmount() decimal.Decimal {
	return it.GrossAmount().Mul(it.DiscountPercentage).Div(decimal.NewFromInt(100))
}

// Invoice is a sale or sale-return document against a customer.
type Invoice struct {
	InvoiceID       string          `db:"invoice_id" json:"invoiceID"`
	InvoiceNumber   string          `db:"invoice_number" json:"invoiceNumber"`
	CustomerID      string          `db:"customer_id" json:"customerID"`
	InvoiceDate     time.Time       `db:"invoice_date" json:"invoiceDate"`
	Type            InvoiceType     `db:"invoice_type" json:"type"`
	GrossTotal      decimal.Decimal `db:"gross_total" json:"grossTotal"`
	DiscountTotal   decimal.Decimal `db:"discount_total" json:"discountTotal"`
	NetTotal        decimal.Decimal `db:"net_total" json:"netTotal"`
	CashPaid        decimal.Decimal `db:"cash_paid" json:"cashPaid"`
	PreviousBalance decimal.Decimal `db:"previous_balance" json:"previousBalance"`
	FinalBalance    decimal.Decimal `db:"final_balance" json:"finalBalance"`
	PaymentStatus   PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	Items           []InvoiceItem   `db:"-" json:"items"`
	AuditFields
}

// ComputeInvoiceTotals fills each item's LineTotal and returns the
// document's gross, discount and net totals.
func ComputeInvoiceTotals(items []InvoiceItem) (gross, discount, net decimal.Decimal, out []InvoiceItem) {
	out = make([]InvoiceItem, len(items))
	for i, it := range items {
		lineGross := it.GrossAmount()
		lineDiscount := it.DiscountAmount()
		it.LineTotal = lineGross.Sub(lineDiscount)
		gross = gross.Add(lineGross)
		discount = discount.Add(lineDiscount)
		net = net.Add(it.LineTotal)
		out[i] = it
	}
	return gross, discount, net, out
}

// PaymentStatusFor classifies a document by how much of net was paid.
func PaymentStatusFor(net, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(net) && net.IsPositive():
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	case net.IsZero():
		return PaymentPaid
	default:
		return PaymentUnpaid
	}
}
