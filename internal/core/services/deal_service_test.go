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

type DealServiceTestSuite struct {
	suite.Suite
	store   *sqlite.Store
	repos   portsrepo.RepositoryProvider
	deals   portssvc.DealSvcFacade
	catalog portssvc.CatalogSvcFacade

	customerID string
	productID  string
}

func (s *DealServiceTestSuite) SetupTest() {
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
	s.deals = services.NewDealService(
		s.repos.TxManager, s.repos.Deals, s.repos.Parties, s.repos.Cash,
		s.repos.Sequences, s.repos.Outbox, s.repos.Activity,
	)
	s.catalog = services.NewCatalogService(
		s.repos.TxManager, s.repos.Catalog, s.repos.Parties, s.repos.Outbox, s.repos.Activity,
	)

	ctx := context.Background()
	customer, err := s.catalog.CreateCustomer(ctx, dto.CreatePartyRequest{Code: "C-1", Name: "Clinic One"})
	s.Require().NoError(err)
	s.customerID = customer.CustomerID

	product, err := s.catalog.CreateProduct(ctx, dto.CreateProductRequest{Code: "AMX250", Name: "Amoxicillin 250mg"})
	s.Require().NoError(err)
	s.productID = product.ProductID
}

func (s *DealServiceTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *DealServiceTestSuite) TestAddDeal_BooksCommissionVoucher() {
	ctx := context.Background()
	deal, err := s.deals.AddDeal(ctx, dto.AddDealRequest{
		DoctorName:       "Dr. Ahmed",
		Representative:   "Rep A",
		CustomerIDs:      []string{s.customerID},
		CommissionAmount: decimal.NewFromInt(5000),
		Targets:          []dto.TargetRequest{{ProductID: s.productID, Quantity: 200}},
	})
	s.Require().NoError(err)
	s.Require().Len(deal.Cycles, 1)
	s.Len(deal.Cycles[0].Targets, 1)

	txns, err := s.repos.Cash.ListCashTransactions(ctx, s.store.Reader(), 10, 0)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(domain.CashExpense, txns[0].Type)
	s.Equal(domain.CashDealCommission, txns[0].Category)
	s.Equal(deal.DealID, txns[0].ReferenceID)
	s.True(txns[0].Amount.Equal(decimal.NewFromInt(5000)))
}

func (s *DealServiceTestSuite) TestAddDeal_ZeroCommissionBooksNothing() {
	ctx := context.Background()
	_, err := s.deals.AddDeal(ctx, dto.AddDealRequest{DoctorName: "Dr. Noor"})
	s.Require().NoError(err)

	txns, err := s.repos.Cash.ListCashTransactions(ctx, s.store.Reader(), 10, 0)
	s.Require().NoError(err)
	s.Empty(txns)
}

func (s *DealServiceTestSuite) TestAddDeal_UnknownCustomer() {
	_, err := s.deals.AddDeal(context.Background(), dto.AddDealRequest{
		DoctorName:  "Dr. Ahmed",
		CustomerIDs: []string{"missing"},
	})
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DealServiceTestSuite) TestRenewDeal_PrependsCycleKeepingHistory() {
	ctx := context.Background()
	deal, err := s.deals.AddDeal(ctx, dto.AddDealRequest{
		DoctorName:       "Dr. Ahmed",
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CommissionAmount: decimal.NewFromInt(1000),
		Targets:          []dto.TargetRequest{{ProductID: s.productID, Quantity: 100}},
	})
	s.Require().NoError(err)
	firstCycle := deal.Cycles[0]

	renewed, err := s.deals.RenewDeal(ctx, deal.DealID, dto.RenewDealRequest{
		CommissionAmount: decimal.NewFromInt(2000),
		Targets:          []dto.TargetRequest{{ProductID: s.productID, Quantity: 300}},
	})
	s.Require().NoError(err)

	s.Require().Len(renewed.Cycles, 2)
	s.True(renewed.Cycles[0].CommissionAmount.Equal(decimal.NewFromInt(2000)))
	s.EqualValues(300, renewed.Cycles[0].Targets[0].Quantity)
	// the old cycle is frozen behind the new one, untouched
	s.True(renewed.Cycles[1].CommissionAmount.Equal(firstCycle.CommissionAmount))
	s.EqualValues(100, renewed.Cycles[1].Targets[0].Quantity)

	// Renewal survives a round trip through the store.
	reloaded, err := s.deals.GetDeal(ctx, deal.DealID)
	s.Require().NoError(err)
	s.Len(reloaded.Cycles, 2)
}

func (s *DealServiceTestSuite) TestUpdateDeal_TouchesCurrentCycleOnly() {
	ctx := context.Background()
	deal, err := s.deals.AddDeal(ctx, dto.AddDealRequest{
		DoctorName: "Dr. Ahmed",
		Targets:    []dto.TargetRequest{{ProductID: s.productID, Quantity: 100}},
	})
	s.Require().NoError(err)
	_, err = s.deals.RenewDeal(ctx, deal.DealID, dto.RenewDealRequest{
		Targets: []dto.TargetRequest{{ProductID: s.productID, Quantity: 200}},
	})
	s.Require().NoError(err)

	updated, err := s.deals.UpdateDeal(ctx, deal.DealID, dto.UpdateDealRequest{
		DoctorName: "Dr. Ahmed Khan",
		Targets:    []dto.TargetRequest{{ProductID: s.productID, Quantity: 250}},
	})
	s.Require().NoError(err)

	s.Equal("Dr. Ahmed Khan", updated.DoctorName)
	s.EqualValues(250, updated.Cycles[0].Targets[0].Quantity)
	s.EqualValues(100, updated.Cycles[1].Targets[0].Quantity, "history must stay frozen")
}

func TestDealServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DealServiceTestSuite))
}
