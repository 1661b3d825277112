package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tnvirji/pharmapos/internal/adapters/database/sqlite"
	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/core/services"
	"github.com/tnvirji/pharmapos/internal/dto"
)

// The ledger suite runs against a real in-memory store so the
// transaction and rollback behavior under test is the production one.
type LedgerServiceTestSuite struct {
	suite.Suite
	store   *sqlite.Store
	repos   portsrepo.RepositoryProvider
	ledger  portssvc.LedgerSvcFacade
	catalog portssvc.CatalogSvcFacade

	warehouseID string
	productID   string
	batchID     string
	customerID  string
	supplierID  string
}

func (s *LedgerServiceTestSuite) SetupTest() {
	store, err := sqlite.Open(":memory:")
	s.Require().NoError(err)
	s.store = store

	s.repos = portsrepo.RepositoryProvider{
		TxManager: store,
		Catalog:   sqlite.NewCatalogRepository(),
		Parties:   sqlite.NewPartyRepository(),
		Documents: sqlite.NewDocumentRepository(),
		Cash:      sqlite.NewCashRepository(),
		Deals:     sqlite.NewDealRepository(),
		Activity:  sqlite.NewActivityRepository(),
		Sequences: sqlite.NewSequenceRepository(),
		Outbox:    sqlite.NewOutboxRepository(),
	}
	s.ledger = services.NewLedgerService(
		s.repos.TxManager, s.repos.Catalog, s.repos.Parties, s.repos.Documents,
		s.repos.Cash, s.repos.Sequences, s.repos.Outbox, s.repos.Activity,
	)
	s.catalog = services.NewCatalogService(
		s.repos.TxManager, s.repos.Catalog, s.repos.Parties, s.repos.Outbox, s.repos.Activity,
	)

	ctx := context.Background()

	warehouse, err := s.catalog.CreateWarehouse(ctx, dto.CreateWarehouseRequest{Name: "Main"})
	s.Require().NoError(err)
	s.warehouseID = warehouse.WarehouseID

	product, err := s.catalog.CreateProduct(ctx, dto.CreateProductRequest{
		Code: "PARA500",
		Name: "Paracetamol 500mg",
		InitialBatch: &dto.InitialBatchRequest{
			WarehouseID:   s.warehouseID,
			BatchNumber:   "B-001",
			Quantity:      100,
			PurchasePrice: decimal.NewFromInt(60),
			SellingPrice:  decimal.NewFromInt(100),
			ExpiryDate:    time.Now().UTC().AddDate(2, 0, 0),
		},
	})
	s.Require().NoError(err)
	s.productID = product.ProductID

	batches, err := s.catalog.ListBatches(ctx, s.productID, "")
	s.Require().NoError(err)
	s.Require().Len(batches, 1)
	s.batchID = batches[0].BatchID

	customer, err := s.catalog.CreateCustomer(ctx, dto.CreatePartyRequest{Code: "C-1", Name: "Clinic One"})
	s.Require().NoError(err)
	s.customerID = customer.CustomerID

	supplier, err := s.catalog.CreateSupplier(ctx, dto.CreatePartyRequest{Code: "SUP-1", Name: "Distributor"})
	s.Require().NoError(err)
	s.supplierID = supplier.SupplierID
}

func (s *LedgerServiceTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *LedgerServiceTestSuite) batch(batchID string) *domain.Batch {
	batch, err := s.repos.Catalog.FindBatchByID(context.Background(), s.store.Reader(), batchID)
	s.Require().NoError(err)
	return batch
}

func (s *LedgerServiceTestSuite) customer(customerID string) *domain.Customer {
	customer, err := s.repos.Parties.FindCustomerByID(context.Background(), s.store.Reader(), customerID)
	s.Require().NoError(err)
	return customer
}

func (s *LedgerServiceTestSuite) outboxDepth() domain.QueueDepth {
	depth, err := s.repos.Outbox.Depth(context.Background(), s.store.Reader())
	s.Require().NoError(err)
	return depth
}

func (s *LedgerServiceTestSuite) TestSell_PartialPayment() {
	ctx := context.Background()
	before := s.outboxDepth()

	invoice, err := s.ledger.Sell(ctx, dto.SellRequest{
		CustomerID: s.customerID,
		Items: []dto.SellItemRequest{
			{BatchID: s.batchID, Quantity: 9},
		},
		CashPaid: decimal.NewFromInt(500),
	})
	s.Require().NoError(err)

	s.True(invoice.NetTotal.Equal(decimal.NewFromInt(900)))
	s.True(invoice.FinalBalance.Equal(decimal.NewFromInt(400)), "balance should be net minus payment")
	s.Equal(domain.PaymentPartial, invoice.PaymentStatus)

	s.EqualValues(91, s.batch(s.batchID).Quantity)
	s.True(s.customer(s.customerID).CurrentBalance.Equal(decimal.NewFromInt(400)))

	// customer, batch, invoice, cash leg and activity entry
	after := s.outboxDepth()
	s.EqualValues(before.Pending+5, after.Pending)
}

func (s *LedgerServiceTestSuite) TestSell_UsesBatchPriceWhenUnset() {
	invoice, err := s.ledger.Sell(context.Background(), dto.SellRequest{
		CustomerID: s.customerID,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 2}},
	})
	s.Require().NoError(err)
	s.True(invoice.NetTotal.Equal(decimal.NewFromInt(200)))
	s.Equal(domain.PaymentUnpaid, invoice.PaymentStatus)
}

func (s *LedgerServiceTestSuite) TestSell_InsufficientStockRollsBackWholeInvoice() {
	before := s.outboxDepth()

	_, err := s.ledger.Sell(context.Background(), dto.SellRequest{
		CustomerID: s.customerID,
		Items: []dto.SellItemRequest{
			{BatchID: s.batchID, Quantity: 10},
			{BatchID: s.batchID, Quantity: 200},
		},
	})
	s.Require().ErrorIs(err, apperrors.ErrInsufficientStock)

	// The first line's deduction must not survive the second line's failure.
	s.EqualValues(100, s.batch(s.batchID).Quantity)
	s.True(s.customer(s.customerID).CurrentBalance.IsZero())
	s.Equal(before, s.outboxDepth())
}

func (s *LedgerServiceTestSuite) TestSell_BonusCountsAgainstStock() {
	_, err := s.ledger.Sell(context.Background(), dto.SellRequest{
		CustomerID: s.customerID,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 90, BonusQuantity: 20}},
	})
	s.Require().ErrorIs(err, apperrors.ErrInsufficientStock)

	invoice, err := s.ledger.Sell(context.Background(), dto.SellRequest{
		CustomerID: s.customerID,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 90, BonusQuantity: 10}},
	})
	s.Require().NoError(err)
	// bonus units move stock but are not billed
	s.True(invoice.NetTotal.Equal(decimal.NewFromInt(9000)))
	batch := s.batch(s.batchID)
	s.EqualValues(0, batch.Quantity)
	s.Equal(domain.BatchDepleted, batch.Status)
}

func (s *LedgerServiceTestSuite) TestSell_UnknownCustomer() {
	_, err := s.ledger.Sell(context.Background(), dto.SellRequest{
		CustomerID: "missing",
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 1}},
	})
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestSellReturn_RestocksAndCreditsCustomer() {
	ctx := context.Background()
	invoice, err := s.ledger.Sell(ctx, dto.SellRequest{
		CustomerID: s.customerID,
		IsReturn:   true,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 5}},
	})
	s.Require().NoError(err)

	s.Equal(domain.InvoiceReturn, invoice.Type)
	s.EqualValues(105, s.batch(s.batchID).Quantity)
	s.True(s.customer(s.customerID).CurrentBalance.Equal(decimal.NewFromInt(-500)))
}

func (s *LedgerServiceTestSuite) TestSell_DocumentNumbersAreSequential() {
	ctx := context.Background()
	period := domain.Period(time.Now().UTC())

	first, err := s.ledger.Sell(ctx, dto.SellRequest{
		CustomerID: s.customerID,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 1}},
	})
	s.Require().NoError(err)
	second, err := s.ledger.Sell(ctx, dto.SellRequest{
		CustomerID: s.customerID,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 1}},
	})
	s.Require().NoError(err)

	s.Equal(domain.FormatDocNumber(domain.SeriesSale, period, 1), first.InvoiceNumber)
	s.Equal(domain.FormatDocNumber(domain.SeriesSale, period, 2), second.InvoiceNumber)

	// Returns count on their own series, starting fresh.
	ret, err := s.ledger.Sell(ctx, dto.SellRequest{
		CustomerID: s.customerID,
		IsReturn:   true,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 1}},
	})
	s.Require().NoError(err)
	s.Equal(domain.FormatDocNumber(domain.SeriesSaleReturn, period, 1), ret.InvoiceNumber)
}

func (s *LedgerServiceTestSuite) TestPurchase_CreatesBatchAndBooksSupplier() {
	ctx := context.Background()
	purchase, err := s.ledger.Purchase(ctx, dto.PurchaseRequest{
		SupplierID: s.supplierID,
		Items: []dto.PurchaseItemRequest{{
			ProductID:     s.productID,
			WarehouseID:   s.warehouseID,
			BatchNumber:   "B-002",
			Quantity:      50,
			BonusQuantity: 5,
			PurchasePrice: decimal.NewFromInt(40),
			SellingPrice:  decimal.NewFromInt(70),
		}},
		CashPaid: decimal.NewFromInt(1000),
	})
	s.Require().NoError(err)

	s.True(purchase.NetTotal.Equal(decimal.NewFromInt(2000)))
	// 2000 owed minus 1000 paid
	s.True(purchase.FinalBalance.Equal(decimal.NewFromInt(1000)))
	s.Equal(domain.PaymentPartial, purchase.PaymentStatus)

	batch, err := s.repos.Catalog.FindBatchByKey(ctx, s.store.Reader(), s.productID, s.warehouseID, "B-002")
	s.Require().NoError(err)
	s.EqualValues(55, batch.Quantity)

	supplier, err := s.repos.Parties.FindSupplierByID(ctx, s.store.Reader(), s.supplierID)
	s.Require().NoError(err)
	s.True(supplier.CurrentBalance.Equal(decimal.NewFromInt(1000)))
}

func (s *LedgerServiceTestSuite) TestPurchase_MergesExistingBatch() {
	ctx := context.Background()
	_, err := s.ledger.Purchase(ctx, dto.PurchaseRequest{
		SupplierID: s.supplierID,
		Items: []dto.PurchaseItemRequest{{
			ProductID:     s.productID,
			WarehouseID:   s.warehouseID,
			BatchNumber:   "B-001",
			Quantity:      25,
			PurchasePrice: decimal.NewFromInt(55),
		}},
	})
	s.Require().NoError(err)

	batch := s.batch(s.batchID)
	s.EqualValues(125, batch.Quantity)
	s.True(batch.PurchasePrice.Equal(decimal.NewFromInt(55)), "latest cost wins")
}

func (s *LedgerServiceTestSuite) TestPurchaseReturn_MissingBatch() {
	_, err := s.ledger.Purchase(context.Background(), dto.PurchaseRequest{
		SupplierID: s.supplierID,
		IsReturn:   true,
		Items: []dto.PurchaseItemRequest{{
			ProductID:   s.productID,
			WarehouseID: s.warehouseID,
			BatchNumber: "NO-SUCH-BATCH",
			Quantity:    5,
		}},
	})
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestAdjustStock() {
	ctx := context.Background()

	_, err := s.ledger.AdjustStock(ctx, dto.AdjustStockRequest{BatchID: s.batchID, Delta: -200, Reason: "damaged"})
	s.Require().ErrorIs(err, apperrors.ErrInsufficientStock)

	_, err = s.ledger.AdjustStock(ctx, dto.AdjustStockRequest{BatchID: s.batchID, Delta: -10})
	s.Require().ErrorIs(err, apperrors.ErrInvalidInput, "reason is mandatory")

	batch, err := s.ledger.AdjustStock(ctx, dto.AdjustStockRequest{BatchID: s.batchID, Delta: -10, Reason: "damaged"})
	s.Require().NoError(err)
	s.EqualValues(90, batch.Quantity)
}

func (s *LedgerServiceTestSuite) TestTransferStock() {
	ctx := context.Background()
	dest, err := s.catalog.CreateWarehouse(ctx, dto.CreateWarehouseRequest{Name: "Branch"})
	s.Require().NoError(err)

	err = s.ledger.TransferStock(ctx, dto.TransferStockRequest{
		BatchID: s.batchID, DestWarehouseID: s.warehouseID, Quantity: 10,
	})
	s.Require().ErrorIs(err, apperrors.ErrInvalidInput, "same-warehouse transfer")

	err = s.ledger.TransferStock(ctx, dto.TransferStockRequest{
		BatchID: s.batchID, DestWarehouseID: dest.WarehouseID, Quantity: 1000,
	})
	s.Require().ErrorIs(err, apperrors.ErrInsufficientStock)
	s.EqualValues(100, s.batch(s.batchID).Quantity, "failed transfer must not move stock")

	err = s.ledger.TransferStock(ctx, dto.TransferStockRequest{
		BatchID: s.batchID, DestWarehouseID: dest.WarehouseID, Quantity: 40,
	})
	s.Require().NoError(err)

	s.EqualValues(60, s.batch(s.batchID).Quantity)
	destBatch, err := s.repos.Catalog.FindBatchByKey(ctx, s.store.Reader(), s.productID, dest.WarehouseID, "B-001")
	s.Require().NoError(err)
	s.EqualValues(40, destBatch.Quantity)
}

func (s *LedgerServiceTestSuite) TestAddCash_CustomerPaymentLowersBalance() {
	ctx := context.Background()
	_, err := s.ledger.Sell(ctx, dto.SellRequest{
		CustomerID: s.customerID,
		Items:      []dto.SellItemRequest{{BatchID: s.batchID, Quantity: 3}},
	})
	s.Require().NoError(err)
	s.True(s.customer(s.customerID).CurrentBalance.Equal(decimal.NewFromInt(300)))

	txn, err := s.ledger.AddCashTransaction(ctx, dto.CashRequest{
		Type:        domain.CashReceipt,
		Category:    domain.CashCustomerPayment,
		ReferenceID: s.customerID,
		Amount:      decimal.NewFromInt(300),
	})
	s.Require().NoError(err)
	s.NotEmpty(txn.VoucherNumber)
	s.True(s.customer(s.customerID).CurrentBalance.IsZero())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
