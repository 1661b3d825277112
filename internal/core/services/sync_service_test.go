package services_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tnvirji/pharmapos/internal/adapters/database/sqlite"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/core/services"
	"github.com/tnvirji/pharmapos/internal/platform/session"
)

// --- Mock RemoteStore ---
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) PushProduct(ctx context.Context, s *domain.Session, product domain.Product) error {
	return m.Called(ctx, s, product).Error(0)
}

func (m *MockRemoteStore) PushBatch(ctx context.Context, s *domain.Session, batch domain.Batch) error {
	return m.Called(ctx, s, batch).Error(0)
}

func (m *MockRemoteStore) PushCustomer(ctx context.Context, s *domain.Session, customer domain.Customer) error {
	return m.Called(ctx, s, customer).Error(0)
}

func (m *MockRemoteStore) PushSupplier(ctx context.Context, s *domain.Session, supplier domain.Supplier) error {
	return m.Called(ctx, s, supplier).Error(0)
}

func (m *MockRemoteStore) PushWarehouse(ctx context.Context, s *domain.Session, warehouse domain.Warehouse) error {
	return m.Called(ctx, s, warehouse).Error(0)
}

func (m *MockRemoteStore) PushInvoice(ctx context.Context, s *domain.Session, invoice domain.Invoice) error {
	return m.Called(ctx, s, invoice).Error(0)
}

func (m *MockRemoteStore) PushPurchase(ctx context.Context, s *domain.Session, purchase domain.PurchaseInvoice) error {
	return m.Called(ctx, s, purchase).Error(0)
}

func (m *MockRemoteStore) PushCashTransaction(ctx context.Context, s *domain.Session, txn domain.CashTransaction) error {
	return m.Called(ctx, s, txn).Error(0)
}

func (m *MockRemoteStore) PushDeal(ctx context.Context, s *domain.Session, deal domain.Deal) error {
	return m.Called(ctx, s, deal).Error(0)
}

func (m *MockRemoteStore) PushActivity(ctx context.Context, s *domain.Session, entry domain.ActivityLog) error {
	return m.Called(ctx, s, entry).Error(0)
}

func (m *MockRemoteStore) PushSetting(ctx context.Context, s *domain.Session, setting domain.Setting) error {
	return m.Called(ctx, s, setting).Error(0)
}

func (m *MockRemoteStore) EnsureProfile(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

// --- Test Suite ---
type SyncServiceTestSuite struct {
	suite.Suite
	store  *sqlite.Store
	repos  portsrepo.RepositoryProvider
	remote *MockRemoteStore
	holder *session.Holder
	sync   portssvc.SyncSvcFacade
}

func (s *SyncServiceTestSuite) SetupTest() {
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
	s.remote = new(MockRemoteStore)
	s.holder = session.NewHolder()
	s.holder.Set(&domain.Session{
		UserID:    "user-1",
		TenantID:  "tenant-1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	s.sync = services.NewSyncService(
		s.repos.TxManager, s.repos.Outbox, s.repos.Catalog, s.repos.Parties,
		s.remote, s.holder, slog.Default(), services.SyncOptions{},
	)
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *SyncServiceTestSuite) append(action domain.ActionType, payload any) int64 {
	raw, err := json.Marshal(payload)
	s.Require().NoError(err)
	entry := &domain.OutboxEntry{
		IdempotencyKey: uuid.NewString(),
		Action:         action,
		Payload:        raw,
		CreatedAt:      time.Now().UTC(),
	}
	s.Require().NoError(s.store.RunInTx(context.Background(), func(q sqlx.ExtContext) error {
		return s.repos.Outbox.Append(context.Background(), q, entry)
	}))
	return entry.EntryID
}

func (s *SyncServiceTestSuite) entryStatus(entryID int64) domain.OutboxStatus {
	entry, err := s.repos.Outbox.FindByID(context.Background(), s.store.Reader(), entryID)
	s.Require().NoError(err)
	return entry.Status
}

func (s *SyncServiceTestSuite) sampleProduct() domain.Product {
	product := domain.Product{ProductID: uuid.NewString(), Code: "PARA500", Name: "Paracetamol 500mg"}
	product.Touch(time.Now().UTC())
	return product
}

func (s *SyncServiceTestSuite) TestSyncPass_NoSessionIsNoop() {
	s.holder.Set(nil)
	entryID := s.append(domain.ActionUpsertProduct, s.sampleProduct())

	s.Require().NoError(s.sync.SyncPass(context.Background()))

	s.Equal(domain.OutboxPending, s.entryStatus(entryID))
	s.remote.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestSyncPass_ExpiredSessionIsNoop() {
	s.holder.Set(&domain.Session{UserID: "u", TenantID: "t", ExpiresAt: time.Now().UTC().Add(-time.Minute)})
	entryID := s.append(domain.ActionUpsertProduct, s.sampleProduct())

	s.Require().NoError(s.sync.SyncPass(context.Background()))

	s.Equal(domain.OutboxPending, s.entryStatus(entryID))
}

func (s *SyncServiceTestSuite) TestSyncPass_DrainsEntries() {
	product := s.sampleProduct()
	customer := domain.Customer{CustomerID: uuid.NewString(), Code: "C-1", Name: "Clinic One"}
	productEntry := s.append(domain.ActionUpsertProduct, product)
	customerEntry := s.append(domain.ActionUpsertCustomer, customer)

	s.remote.On("PushProduct", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Product")).Return(nil).Once()
	s.remote.On("PushCustomer", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Customer")).Return(nil).Once()

	s.Require().NoError(s.sync.SyncPass(context.Background()))

	s.Equal(domain.OutboxSynced, s.entryStatus(productEntry))
	s.Equal(domain.OutboxSynced, s.entryStatus(customerEntry))

	depth, err := s.sync.QueueDepth(context.Background())
	s.Require().NoError(err)
	s.Zero(depth.Pending)
	s.remote.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestSyncPass_DependencyRepairThenRetry() {
	// The invoice references a customer that exists locally but not yet
	// remotely; the first push reports the missing dependency.
	customer := domain.Customer{CustomerID: uuid.NewString(), Code: "C-1", Name: "Clinic One",
		OpeningBalance: decimal.Zero, CurrentBalance: decimal.Zero}
	customer.Touch(time.Now().UTC())
	s.Require().NoError(s.store.RunInTx(context.Background(), func(q sqlx.ExtContext) error {
		return s.repos.Parties.SaveCustomer(context.Background(), q, customer)
	}))

	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "S2508-1",
		CustomerID:    customer.CustomerID,
		InvoiceDate:   time.Now().UTC(),
		Type:          domain.InvoiceSale,
		PaymentStatus: domain.PaymentUnpaid,
	}
	entryID := s.append(domain.ActionUpsertInvoice, invoice)

	s.remote.On("PushInvoice", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).
		Return(&portsrepo.DependencyError{Constraint: "invoices_customer_id_fkey", Table: "customers"}).Once()
	s.remote.On("PushCustomer", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.CustomerID == customer.CustomerID
	})).Return(nil).Once()
	s.remote.On("PushInvoice", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).
		Return(nil).Once()

	s.Require().NoError(s.sync.SyncPass(context.Background()))

	s.Equal(domain.OutboxSynced, s.entryStatus(entryID))
	s.remote.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestSyncPass_PermissionRepairThenRetry() {
	entryID := s.append(domain.ActionUpsertProduct, s.sampleProduct())

	s.remote.On("PushProduct", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(&portsrepo.PermissionError{Detail: "rls policy"}).Once()
	s.remote.On("EnsureProfile", mock.Anything, mock.Anything).Return(nil).Once()
	s.remote.On("PushProduct", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(nil).Once()

	s.Require().NoError(s.sync.SyncPass(context.Background()))

	s.Equal(domain.OutboxSynced, s.entryStatus(entryID))
	s.remote.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestSyncPass_PermissionFailureAfterRepairDeadLetters() {
	entryID := s.append(domain.ActionUpsertProduct, s.sampleProduct())

	s.remote.On("PushProduct", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(&portsrepo.PermissionError{Detail: "rls policy"}).Twice()
	s.remote.On("EnsureProfile", mock.Anything, mock.Anything).Return(nil).Once()

	s.Require().NoError(s.sync.SyncPass(context.Background()))

	// Waiting will not fix a permission failure that survived a repair.
	s.Equal(domain.OutboxFailed, s.entryStatus(entryID))
	s.remote.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestSyncPass_RetryCeilingDeadLetters() {
	entryID := s.append(domain.ActionUpsertProduct, s.sampleProduct())

	s.remote.On("PushProduct", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(assert.AnError)

	for i := 0; i < domain.MaxSyncRetries; i++ {
		s.Require().NoError(s.sync.SyncPass(context.Background()))
		s.Equal(domain.OutboxPending, s.entryStatus(entryID))
	}
	s.Require().NoError(s.sync.SyncPass(context.Background()))
	s.Equal(domain.OutboxFailed, s.entryStatus(entryID))

	// Manual requeue puts the entry back in rotation.
	s.Require().NoError(s.sync.RequeueFailed(context.Background(), entryID))
	s.Equal(domain.OutboxPending, s.entryStatus(entryID))
}

func (s *SyncServiceTestSuite) TestSyncPass_ReplayAfterCrashIsIdempotent() {
	// Simulates the push-succeeded-but-ack-lost case: the entry is still
	// PENDING, so the next pass pushes the same snapshot again. The remote
	// upserts by id, so the second push must simply succeed.
	entryID := s.append(domain.ActionUpsertProduct, s.sampleProduct())

	s.remote.On("PushProduct", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(nil).Twice()

	s.Require().NoError(s.sync.SyncPass(context.Background()))
	// Roll the status back as if the SYNCED write never landed.
	_, err := s.store.Reader().ExecContext(context.Background(),
		`UPDATE outbox_entries SET status = ? WHERE entry_id = ?;`, domain.OutboxPending, entryID)
	s.Require().NoError(err)
	s.Require().NoError(s.sync.SyncPass(context.Background()))

	s.Equal(domain.OutboxSynced, s.entryStatus(entryID))
	s.remote.AssertExpectations(s.T())
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
