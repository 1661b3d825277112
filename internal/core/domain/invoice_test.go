package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tnvirji/pharmapos/internal/core/domain"
)

func TestComputeInvoiceTotals(t *testing.T) {
	items := []domain.InvoiceItem{
		{Quantity: 10, UnitPrice: decimal.NewFromInt(100), DiscountPercentage: decimal.NewFromInt(10)},
		{Quantity: 5, BonusQuantity: 2, UnitPrice: decimal.NewFromInt(50)},
	}

	gross, discount, net, out := domain.ComputeInvoiceTotals(items)

	assert.True(t, gross.Equal(decimal.NewFromInt(1250)))
	assert.True(t, discount.Equal(decimal.NewFromInt(100)))
	assert.True(t, net.Equal(decimal.NewFromInt(1150)))
	// bonus quantity never bills
	assert.True(t, out[0].LineTotal.Equal(decimal.NewFromInt(900)))
	assert.True(t, out[1].LineTotal.Equal(decimal.NewFromInt(250)))
}

func TestPaymentStatusFor(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	assert.Equal(t, domain.PaymentPaid, domain.PaymentStatusFor(hundred, hundred))
	assert.Equal(t, domain.PaymentPaid, domain.PaymentStatusFor(hundred, decimal.NewFromInt(150)))
	assert.Equal(t, domain.PaymentPartial, domain.PaymentStatusFor(hundred, decimal.NewFromInt(40)))
	assert.Equal(t, domain.PaymentUnpaid, domain.PaymentStatusFor(hundred, decimal.Zero))
	assert.Equal(t, domain.PaymentPaid, domain.PaymentStatusFor(decimal.Zero, decimal.Zero))
}

func TestBatchRefreshStatus(t *testing.T) {
	now := time.Now().UTC()

	batch := domain.Batch{Quantity: 10, ExpiryDate: now.AddDate(1, 0, 0)}
	batch.RefreshStatus(now)
	assert.Equal(t, domain.BatchActive, batch.Status)

	batch.ExpiryDate = now.AddDate(0, 0, -1)
	batch.RefreshStatus(now)
	assert.Equal(t, domain.BatchExpired, batch.Status)

	// depletion wins over expiry
	batch.Quantity = 0
	batch.RefreshStatus(now)
	assert.Equal(t, domain.BatchDepleted, batch.Status)
}

func TestFormatDocNumber(t *testing.T) {
	period := domain.Period(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2501", period)
	assert.Equal(t, "S2501-2", domain.FormatDocNumber(domain.SeriesSale, period, 2))
	assert.Equal(t, "PR2501-1", domain.FormatDocNumber(domain.SeriesPurchaseReturn, period, 1))
}
