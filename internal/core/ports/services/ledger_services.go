package services

import (
	"context"

	"github.com/tnvirji/pharmapos/internal/core/domain"
	"github.com/tnvirji/pharmapos/internal/dto"
)

// LedgerSvcFacade is the set of atomic business operations. Each call
// runs one local transaction and reports invariant violations
// synchronously; replication happens later via the outbox.
type LedgerSvcFacade interface {
	Sell(ctx context.Context, req dto.SellRequest) (*domain.Invoice, error)
	Purchase(ctx context.Context, req dto.PurchaseRequest) (*domain.PurchaseInvoice, error)
	AdjustStock(ctx context.Context, req dto.AdjustStockRequest) (*domain.Batch, error)
	TransferStock(ctx context.Context, req dto.TransferStockRequest) error
	AddCashTransaction(ctx context.Context, req dto.CashRequest) (*domain.CashTransaction, error)

	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]domain.Invoice, error)
	GetPurchase(ctx context.Context, purchaseID string) (*domain.PurchaseInvoice, error)
	ListPurchases(ctx context.Context, limit, offset int) ([]domain.PurchaseInvoice, error)
	ListCashTransactions(ctx context.Context, limit, offset int) ([]domain.CashTransaction, error)
}

// CatalogSvcFacade maintains products, batches, parties, warehouses and
// settings. Writes go through the same outbox discipline as documents.
type CatalogSvcFacade interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ListBatches(ctx context.Context, productID, warehouseID string) ([]domain.Batch, error)

	CreateCustomer(ctx context.Context, req dto.CreatePartyRequest) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error)
	CreateSupplier(ctx context.Context, req dto.CreatePartyRequest) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error)
	CreateWarehouse(ctx context.Context, req dto.CreateWarehouseRequest) (*domain.Warehouse, error)

	UpdateSetting(ctx context.Context, req dto.UpdateSettingRequest) error
	ListActivities(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error)
}

// DealSvcFacade manages the commission deal lifecycle.
type DealSvcFacade interface {
	AddDeal(ctx context.Context, req dto.AddDealRequest) (*domain.Deal, error)
	RenewDeal(ctx context.Context, dealID string, req dto.RenewDealRequest) (*domain.Deal, error)
	UpdateDeal(ctx context.Context, dealID string, req dto.UpdateDealRequest) (*domain.Deal, error)
	GetDeal(ctx context.Context, dealID string) (*domain.Deal, error)
	ListDeals(ctx context.Context, limit, offset int) ([]domain.Deal, error)
}
