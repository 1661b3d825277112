package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/dto"
)

// ledgerService implements the atomic business operations. Every write
// path runs as one local transaction: entity mutations, balance deltas,
// document number allocation, the activity entry and the outbox appends
// commit together or not at all.
type ledgerService struct {
	txm       portsrepo.TransactionManager
	catalog   portsrepo.CatalogRepository
	parties   portsrepo.PartyRepository
	documents portsrepo.DocumentRepository
	cash      portsrepo.CashRepository
	sequences portsrepo.SequenceRepository
	outbox    portsrepo.OutboxRepository
	activity  portsrepo.ActivityRepository
}

// NewLedgerService creates the ledger service.
func NewLedgerService(
	txm portsrepo.TransactionManager,
	catalog portsrepo.CatalogRepository,
	parties portsrepo.PartyRepository,
	documents portsrepo.DocumentRepository,
	cash portsrepo.CashRepository,
	sequences portsrepo.SequenceRepository,
	outbox portsrepo.OutboxRepository,
	activity portsrepo.ActivityRepository,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txm:       txm,
		catalog:   catalog,
		parties:   parties,
		documents: documents,
		cash:      cash,
		sequences: sequences,
		outbox:    outbox,
		activity:  activity,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// enqueue snapshots payload into a new PENDING outbox entry within the
// caller's transaction.
func enqueue(ctx context.Context, q sqlx.ExtContext, outbox portsrepo.OutboxRepository, action domain.ActionType, payload any, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s payload: %w", action, err)
	}
	return outbox.Append(ctx, q, &domain.OutboxEntry{
		IdempotencyKey: uuid.NewString(),
		Action:         action,
		Payload:        raw,
		CreatedAt:      now,
	})
}

func logActivity(ctx context.Context, q sqlx.ExtContext, activity portsrepo.ActivityRepository, outbox portsrepo.OutboxRepository, action, entity, entityID, detail string, now time.Time) error {
	entry := domain.ActivityLog{
		ActivityID: uuid.NewString(),
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  now,
	}
	if err := activity.SaveActivity(ctx, q, entry); err != nil {
		return err
	}
	return enqueue(ctx, q, outbox, domain.ActionInsertActivity, entry, now)
}

// Sell writes a sale or sale-return invoice. The customer balance takes
// two independent, order-sensitive deltas in the same transaction: the
// invoice net, then the cash payment if any.
func (s *ledgerService) Sell(ctx context.Context, req dto.SellRequest) (*domain.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("invoice needs at least one item: %w", apperrors.ErrInvalidInput)
	}
	if req.CashPaid.IsNegative() {
		return nil, fmt.Errorf("cash paid cannot be negative: %w", apperrors.ErrInvalidInput)
	}

	var invoice *domain.Invoice
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()

		customer, err := s.parties.FindCustomerByID(ctx, q, req.CustomerID)
		if err != nil {
			return fmt.Errorf("customer %s: %w", req.CustomerID, err)
		}

		items := make([]domain.InvoiceItem, 0, len(req.Items))
		touched := make([]domain.Batch, 0, len(req.Items))
		for _, line := range req.Items {
			if line.Quantity <= 0 || line.BonusQuantity < 0 {
				return fmt.Errorf("line quantity must be positive: %w", apperrors.ErrInvalidInput)
			}
			batch, err := s.catalog.FindBatchByID(ctx, q, line.BatchID)
			if err != nil {
				return fmt.Errorf("batch %s: %w", line.BatchID, err)
			}
			product, err := s.catalog.FindProductByID(ctx, q, batch.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", batch.ProductID, err)
			}

			moved := line.Quantity + line.BonusQuantity
			if req.IsReturn {
				batch.Quantity += moved
			} else {
				if moved > batch.Quantity {
					return fmt.Errorf("batch %s has %d units, %d requested: %w",
						batch.BatchID, batch.Quantity, moved, apperrors.ErrInsufficientStock)
				}
				batch.Quantity -= moved
			}
			batch.RefreshStatus(now)
			batch.Touch(now)
			if err := s.catalog.SaveBatch(ctx, q, *batch); err != nil {
				return err
			}
			touched = append(touched, *batch)

			unitPrice := line.UnitPrice
			if !unitPrice.IsPositive() {
				unitPrice = batch.SellingPrice
			}
			items = append(items, domain.InvoiceItem{
				ProductID:          batch.ProductID,
				BatchID:            batch.BatchID,
				ProductName:        product.Name,
				BatchNumber:        batch.BatchNumber,
				Quantity:           line.Quantity,
				BonusQuantity:      line.BonusQuantity,
				UnitPrice:          unitPrice,
				DiscountPercentage: line.DiscountPercentage,
			})
		}

		gross, discount, net, items := domain.ComputeInvoiceTotals(items)

		previous := customer.CurrentBalance
		balance := previous
		invType := domain.InvoiceSale
		if req.IsReturn {
			invType = domain.InvoiceReturn
			balance = balance.Sub(net)
		} else {
			balance = balance.Add(net)
		}

		period := domain.Period(now)
		series := domain.SeriesFor(req.IsReturn, domain.SeriesSale, domain.SeriesSaleReturn)
		n, err := s.sequences.NextNumber(ctx, q, series, period)
		if err != nil {
			return err
		}

		inv := domain.Invoice{
			InvoiceID:       uuid.NewString(),
			InvoiceNumber:   domain.FormatDocNumber(series, period, n),
			CustomerID:      customer.CustomerID,
			InvoiceDate:     now,
			Type:            invType,
			GrossTotal:      gross,
			DiscountTotal:   discount,
			NetTotal:        net,
			CashPaid:        req.CashPaid,
			PreviousBalance: previous,
			PaymentStatus:   domain.PaymentStatusFor(net, req.CashPaid),
			Items:           items,
		}
		inv.Touch(now)

		var cashTxn *domain.CashTransaction
		if req.CashPaid.IsPositive() {
			txn, newBalance, err := s.bookCustomerPayment(ctx, q, customer.CustomerID, inv.InvoiceID, req.CashPaid, balance, req.IsReturn, now)
			if err != nil {
				return err
			}
			cashTxn = txn
			balance = newBalance
		}
		inv.FinalBalance = balance

		if err := s.documents.SaveInvoice(ctx, q, inv); err != nil {
			return err
		}

		customer.CurrentBalance = balance
		customer.Touch(now)
		if err := s.parties.SaveCustomer(ctx, q, *customer); err != nil {
			return err
		}

		// Dependencies before dependents so a clean drain needs no repair.
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertCustomer, customer, now); err != nil {
			return err
		}
		for _, batch := range touched {
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertBatch, batch, now); err != nil {
				return err
			}
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertInvoice, inv, now); err != nil {
			return err
		}
		if cashTxn != nil {
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertCash, cashTxn, now); err != nil {
				return err
			}
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, string(invType), "invoice", inv.InvoiceID, inv.InvoiceNumber, now); err != nil {
			return err
		}

		invoice = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// bookCustomerPayment writes the cash leg of an invoice and returns the
// balance after the payment delta. A sale payment is a receipt that
// lowers the customer balance; a return refund is an expense that raises
// it back.
func (s *ledgerService) bookCustomerPayment(ctx context.Context, q sqlx.ExtContext, customerID, invoiceID string, amount, balance decimal.Decimal, isReturn bool, now time.Time) (*domain.CashTransaction, decimal.Decimal, error) {
	cashType := domain.CashReceipt
	if isReturn {
		cashType = domain.CashExpense
		balance = balance.Add(amount)
	} else {
		balance = balance.Sub(amount)
	}

	n, err := s.sequences.NextNumber(ctx, q, domain.SeriesVoucher, domain.Period(now))
	if err != nil {
		return nil, balance, err
	}
	txn := domain.CashTransaction{
		CashID:        uuid.NewString(),
		VoucherNumber: domain.FormatDocNumber(domain.SeriesVoucher, domain.Period(now), n),
		Type:          cashType,
		Category:      domain.CashCustomerPayment,
		ReferenceID:   invoiceID,
		Amount:        amount,
		TxnDate:       now,
		Notes:         "invoice payment " + customerID,
	}
	txn.Touch(now)
	if err := s.cash.SaveCashTransaction(ctx, q, txn); err != nil {
		return nil, balance, err
	}
	return &txn, balance, nil
}

// Purchase writes a purchase or purchase-return invoice against a
// supplier, creating or merging batches per line.
func (s *ledgerService) Purchase(ctx context.Context, req dto.PurchaseRequest) (*domain.PurchaseInvoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("purchase needs at least one item: %w", apperrors.ErrInvalidInput)
	}
	if req.CashPaid.IsNegative() {
		return nil, fmt.Errorf("cash paid cannot be negative: %w", apperrors.ErrInvalidInput)
	}

	var purchase *domain.PurchaseInvoice
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()

		supplier, err := s.parties.FindSupplierByID(ctx, q, req.SupplierID)
		if err != nil {
			return fmt.Errorf("supplier %s: %w", req.SupplierID, err)
		}

		items := make([]domain.PurchaseItem, 0, len(req.Items))
		touched := make([]domain.Batch, 0, len(req.Items))
		for _, line := range req.Items {
			if line.Quantity <= 0 || line.BonusQuantity < 0 {
				return fmt.Errorf("line quantity must be positive: %w", apperrors.ErrInvalidInput)
			}
			batch, err := s.upsertPurchaseBatch(ctx, q, line, req.IsReturn, now)
			if err != nil {
				return err
			}
			touched = append(touched, *batch)
			items = append(items, domain.PurchaseItem{
				ProductID:     line.ProductID,
				WarehouseID:   line.WarehouseID,
				BatchNumber:   line.BatchNumber,
				Quantity:      line.Quantity,
				BonusQuantity: line.BonusQuantity,
				PurchasePrice: line.PurchasePrice,
				SellingPrice:  line.SellingPrice,
				ExpiryDate:    line.ExpiryDate,
			})
		}

		net, items := domain.ComputePurchaseTotal(items)

		previous := supplier.CurrentBalance
		balance := previous
		purchaseType := domain.PurchaseReceive
		if req.IsReturn {
			purchaseType = domain.PurchaseReturn
			balance = balance.Sub(net)
		} else {
			balance = balance.Add(net)
		}

		period := domain.Period(now)
		series := domain.SeriesFor(req.IsReturn, domain.SeriesPurchase, domain.SeriesPurchaseReturn)
		n, err := s.sequences.NextNumber(ctx, q, series, period)
		if err != nil {
			return err
		}

		doc := domain.PurchaseInvoice{
			PurchaseID:      uuid.NewString(),
			InvoiceNumber:   domain.FormatDocNumber(series, period, n),
			SupplierID:      supplier.SupplierID,
			InvoiceDate:     now,
			Type:            purchaseType,
			NetTotal:        net,
			CashPaid:        req.CashPaid,
			PreviousBalance: previous,
			PaymentStatus:   domain.PaymentStatusFor(net, req.CashPaid),
			Items:           items,
		}
		doc.Touch(now)

		var cashTxn *domain.CashTransaction
		if req.CashPaid.IsPositive() {
			cashType := domain.CashExpense
			if req.IsReturn {
				cashType = domain.CashReceipt
				balance = balance.Add(req.CashPaid)
			} else {
				balance = balance.Sub(req.CashPaid)
			}
			vn, err := s.sequences.NextNumber(ctx, q, domain.SeriesVoucher, period)
			if err != nil {
				return err
			}
			txn := domain.CashTransaction{
				CashID:        uuid.NewString(),
				VoucherNumber: domain.FormatDocNumber(domain.SeriesVoucher, period, vn),
				Type:          cashType,
				Category:      domain.CashSupplierPayment,
				ReferenceID:   doc.PurchaseID,
				Amount:        req.CashPaid,
				TxnDate:       now,
				Notes:         "purchase payment " + supplier.SupplierID,
			}
			txn.Touch(now)
			if err := s.cash.SaveCashTransaction(ctx, q, txn); err != nil {
				return err
			}
			cashTxn = &txn
		}
		doc.FinalBalance = balance

		if err := s.documents.SavePurchase(ctx, q, doc); err != nil {
			return err
		}

		supplier.CurrentBalance = balance
		supplier.Touch(now)
		if err := s.parties.SaveSupplier(ctx, q, *supplier); err != nil {
			return err
		}

		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertSupplier, supplier, now); err != nil {
			return err
		}
		for _, batch := range touched {
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertBatch, batch, now); err != nil {
				return err
			}
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertPurchase, doc, now); err != nil {
			return err
		}
		if cashTxn != nil {
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertCash, cashTxn, now); err != nil {
				return err
			}
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, string(purchaseType), "purchase", doc.PurchaseID, doc.InvoiceNumber, now); err != nil {
			return err
		}

		purchase = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// upsertPurchaseBatch locates the batch for a purchase line by its
// natural key, merging quantity and refreshing prices, or creates it for
// a receiving line. A return against a missing batch is NotFound; a
// return larger than the batch is InsufficientStock.
func (s *ledgerService) upsertPurchaseBatch(ctx context.Context, q sqlx.ExtContext, line dto.PurchaseItemRequest, isReturn bool, now time.Time) (*domain.Batch, error) {
	moved := line.Quantity + line.BonusQuantity
	batch, err := s.catalog.FindBatchByKey(ctx, q, line.ProductID, line.WarehouseID, line.BatchNumber)
	switch {
	case err == nil:
		if isReturn {
			if moved > batch.Quantity {
				return nil, fmt.Errorf("batch %s has %d units, %d returned: %w",
					batch.BatchID, batch.Quantity, moved, apperrors.ErrInsufficientStock)
			}
			batch.Quantity -= moved
		} else {
			batch.Quantity += moved
			batch.PurchasePrice = line.PurchasePrice
			if line.SellingPrice.IsPositive() {
				batch.SellingPrice = line.SellingPrice
			}
			if !line.ExpiryDate.IsZero() {
				batch.ExpiryDate = line.ExpiryDate
			}
		}
	case errorsIsNotFound(err) && !isReturn:
		if _, perr := s.catalog.FindProductByID(ctx, q, line.ProductID); perr != nil {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, perr)
		}
		if _, werr := s.catalog.FindWarehouseByID(ctx, q, line.WarehouseID); werr != nil {
			return nil, fmt.Errorf("warehouse %s: %w", line.WarehouseID, werr)
		}
		batch = &domain.Batch{
			BatchID:       uuid.NewString(),
			ProductID:     line.ProductID,
			WarehouseID:   line.WarehouseID,
			BatchNumber:   line.BatchNumber,
			Quantity:      moved,
			PurchasePrice: line.PurchasePrice,
			SellingPrice:  line.SellingPrice,
			ExpiryDate:    line.ExpiryDate,
		}
	default:
		return nil, fmt.Errorf("batch %s/%s/%s: %w", line.ProductID, line.WarehouseID, line.BatchNumber, err)
	}

	batch.RefreshStatus(now)
	batch.Touch(now)
	if err := s.catalog.SaveBatch(ctx, q, *batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// AdjustStock applies a signed delta to one batch with a mandatory reason.
func (s *ledgerService) AdjustStock(ctx context.Context, req dto.AdjustStockRequest) (*domain.Batch, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("adjustment reason is required: %w", apperrors.ErrInvalidInput)
	}
	if req.Delta == 0 {
		return nil, fmt.Errorf("adjustment delta cannot be zero: %w", apperrors.ErrInvalidInput)
	}

	var adjusted *domain.Batch
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		batch, err := s.catalog.FindBatchByID(ctx, q, req.BatchID)
		if err != nil {
			return fmt.Errorf("batch %s: %w", req.BatchID, err)
		}
		if batch.Quantity+req.Delta < 0 {
			return fmt.Errorf("batch %s has %d units, adjustment %d: %w",
				batch.BatchID, batch.Quantity, req.Delta, apperrors.ErrInsufficientStock)
		}
		batch.Quantity += req.Delta
		batch.RefreshStatus(now)
		batch.Touch(now)
		if err := s.catalog.SaveBatch(ctx, q, *batch); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertBatch, batch, now); err != nil {
			return err
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, "ADJUST", "batch", batch.BatchID,
			fmt.Sprintf("%+d: %s", req.Delta, req.Reason), now); err != nil {
			return err
		}
		adjusted = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}

// TransferStock moves quantity from a source batch to the destination
// warehouse's batch of the same product and batch number, creating the
// destination if absent. Both mutations commit together: an abort
// between them restores the source.
func (s *ledgerService) TransferStock(ctx context.Context, req dto.TransferStockRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("transfer quantity must be positive: %w", apperrors.ErrInvalidInput)
	}
	return s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()

		source, err := s.catalog.FindBatchByID(ctx, q, req.BatchID)
		if err != nil {
			return fmt.Errorf("source batch %s: %w", req.BatchID, err)
		}
		if source.WarehouseID == req.DestWarehouseID {
			return fmt.Errorf("source and destination warehouse are the same: %w", apperrors.ErrInvalidInput)
		}
		if req.Quantity > source.Quantity {
			return fmt.Errorf("batch %s has %d units, %d requested: %w",
				source.BatchID, source.Quantity, req.Quantity, apperrors.ErrInsufficientStock)
		}
		if _, err := s.catalog.FindWarehouseByID(ctx, q, req.DestWarehouseID); err != nil {
			return fmt.Errorf("warehouse %s: %w", req.DestWarehouseID, err)
		}

		source.Quantity -= req.Quantity
		source.RefreshStatus(now)
		source.Touch(now)
		if err := s.catalog.SaveBatch(ctx, q, *source); err != nil {
			return err
		}

		dest, err := s.catalog.FindBatchByKey(ctx, q, source.ProductID, req.DestWarehouseID, source.BatchNumber)
		switch {
		case err == nil:
			dest.Quantity += req.Quantity
		case errorsIsNotFound(err):
			dest = &domain.Batch{
				BatchID:       uuid.NewString(),
				ProductID:     source.ProductID,
				WarehouseID:   req.DestWarehouseID,
				BatchNumber:   source.BatchNumber,
				Quantity:      req.Quantity,
				PurchasePrice: source.PurchasePrice,
				SellingPrice:  source.SellingPrice,
				ExpiryDate:    source.ExpiryDate,
			}
		default:
			return err
		}
		dest.RefreshStatus(now)
		dest.Touch(now)
		if err := s.catalog.SaveBatch(ctx, q, *dest); err != nil {
			return err
		}

		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertBatch, source, now); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertBatch, dest, now); err != nil {
			return err
		}
		return logActivity(ctx, q, s.activity, s.outbox, "TRANSFER", "batch", source.BatchID,
			fmt.Sprintf("%d units to warehouse %s", req.Quantity, req.DestWarehouseID), now)
	})
}

// AddCashTransaction books a standalone cash movement. Payment
// categories adjust the referenced party's balance in the same
// transaction.
func (s *ledgerService) AddCashTransaction(ctx context.Context, req dto.CashRequest) (*domain.CashTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("cash amount must be positive: %w", apperrors.ErrInvalidInput)
	}

	var created *domain.CashTransaction
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		period := domain.Period(now)

		n, err := s.sequences.NextNumber(ctx, q, domain.SeriesVoucher, period)
		if err != nil {
			return err
		}
		txn := domain.CashTransaction{
			CashID:        uuid.NewString(),
			VoucherNumber: domain.FormatDocNumber(domain.SeriesVoucher, period, n),
			Type:          req.Type,
			Category:      req.Category,
			ReferenceID:   req.ReferenceID,
			Amount:        req.Amount,
			TxnDate:       now,
			Notes:         req.Notes,
		}
		txn.Touch(now)

		switch req.Category {
		case domain.CashCustomerPayment:
			customer, err := s.parties.FindCustomerByID(ctx, q, req.ReferenceID)
			if err != nil {
				return fmt.Errorf("customer %s: %w", req.ReferenceID, err)
			}
			if req.Type == domain.CashReceipt {
				customer.CurrentBalance = customer.CurrentBalance.Sub(req.Amount)
			} else {
				customer.CurrentBalance = customer.CurrentBalance.Add(req.Amount)
			}
			customer.Touch(now)
			if err := s.parties.SaveCustomer(ctx, q, *customer); err != nil {
				return err
			}
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertCustomer, customer, now); err != nil {
				return err
			}
		case domain.CashSupplierPayment:
			supplier, err := s.parties.FindSupplierByID(ctx, q, req.ReferenceID)
			if err != nil {
				return fmt.Errorf("supplier %s: %w", req.ReferenceID, err)
			}
			if req.Type == domain.CashExpense {
				supplier.CurrentBalance = supplier.CurrentBalance.Sub(req.Amount)
			} else {
				supplier.CurrentBalance = supplier.CurrentBalance.Add(req.Amount)
			}
			supplier.Touch(now)
			if err := s.parties.SaveSupplier(ctx, q, *supplier); err != nil {
				return err
			}
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertSupplier, supplier, now); err != nil {
				return err
			}
		}

		if err := s.cash.SaveCashTransaction(ctx, q, txn); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertCash, txn, now); err != nil {
			return err
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, string(req.Type), "cash", txn.CashID, txn.VoucherNumber, now); err != nil {
			return err
		}
		created = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ledgerService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.documents.FindInvoiceByID(ctx, s.txm.Reader(), invoiceID)
}

func (s *ledgerService) ListInvoices(ctx context.Context, limit, offset int) ([]domain.Invoice, error) {
	return s.documents.ListInvoices(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}

func (s *ledgerService) GetPurchase(ctx context.Context, purchaseID string) (*domain.PurchaseInvoice, error) {
	return s.documents.FindPurchaseByID(ctx, s.txm.Reader(), purchaseID)
}

func (s *ledgerService) ListPurchases(ctx context.Context, limit, offset int) ([]domain.PurchaseInvoice, error) {
	return s.documents.ListPurchases(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}

func (s *ledgerService) ListCashTransactions(ctx context.Context, limit, offset int) ([]domain.CashTransaction, error) {
	return s.cash.ListCashTransactions(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
