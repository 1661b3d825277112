package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/dto"
)

// catalogService maintains products, parties, warehouses and settings.
// Creation goes through the same transaction-plus-outbox discipline as
// the documents, so the remote catalog converges the same way.
type catalogService struct {
	txm      portsrepo.TransactionManager
	catalog  portsrepo.CatalogRepository
	parties  portsrepo.PartyRepository
	outbox   portsrepo.OutboxRepository
	activity portsrepo.ActivityRepository
}

// NewCatalogService creates the catalog service.
func NewCatalogService(
	txm portsrepo.TransactionManager,
	catalog portsrepo.CatalogRepository,
	parties portsrepo.PartyRepository,
	outbox portsrepo.OutboxRepository,
	activity portsrepo.ActivityRepository,
) portssvc.CatalogSvcFacade {
	return &catalogService{
		txm:      txm,
		catalog:  catalog,
		parties:  parties,
		outbox:   outbox,
		activity: activity,
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

// CreateProduct adds a catalog entry; with opening stock it appends two
// outbox entries, one per independent remote effect.
func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
	if req.Code == "" || req.Name == "" {
		return nil, fmt.Errorf("product code and name are required: %w", apperrors.ErrInvalidInput)
	}

	var created *domain.Product
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		product := domain.Product{
			ProductID:   uuid.NewString(),
			Code:        req.Code,
			Name:        req.Name,
			GenericName: req.GenericName,
			Category:    req.Category,
		}
		product.Touch(now)
		if err := s.catalog.SaveProduct(ctx, q, product); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertProduct, product, now); err != nil {
			return err
		}

		if req.InitialBatch != nil {
			if _, err := s.catalog.FindWarehouseByID(ctx, q, req.InitialBatch.WarehouseID); err != nil {
				return fmt.Errorf("warehouse %s: %w", req.InitialBatch.WarehouseID, err)
			}
			batch := domain.Batch{
				BatchID:       uuid.NewString(),
				ProductID:     product.ProductID,
				WarehouseID:   req.InitialBatch.WarehouseID,
				BatchNumber:   req.InitialBatch.BatchNumber,
				Quantity:      req.InitialBatch.Quantity,
				PurchasePrice: req.InitialBatch.PurchasePrice,
				SellingPrice:  req.InitialBatch.SellingPrice,
				ExpiryDate:    req.InitialBatch.ExpiryDate,
			}
			batch.RefreshStatus(now)
			batch.Touch(now)
			if err := s.catalog.SaveBatch(ctx, q, batch); err != nil {
				return err
			}
			if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertBatch, batch, now); err != nil {
				return err
			}
		}

		if err := logActivity(ctx, q, s.activity, s.outbox, "CREATE", "product", product.ProductID, product.Code, now); err != nil {
			return err
		}
		created = &product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.catalog.FindProductByID(ctx, s.txm.Reader(), productID)
}

func (s *catalogService) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}

// ListBatches filters by product or warehouse; exactly one must be set.
func (s *catalogService) ListBatches(ctx context.Context, productID, warehouseID string) ([]domain.Batch, error) {
	switch {
	case productID != "":
		return s.catalog.ListBatchesByProduct(ctx, s.txm.Reader(), productID)
	case warehouseID != "":
		return s.catalog.ListBatchesByWarehouse(ctx, s.txm.Reader(), warehouseID)
	default:
		return nil, fmt.Errorf("product or warehouse filter required: %w", apperrors.ErrInvalidInput)
	}
}

func (s *catalogService) CreateCustomer(ctx context.Context, req dto.CreatePartyRequest) (*domain.Customer, error) {
	if req.Code == "" || req.Name == "" {
		return nil, fmt.Errorf("customer code and name are required: %w", apperrors.ErrInvalidInput)
	}
	var created *domain.Customer
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		customer := domain.Customer{
			CustomerID:     uuid.NewString(),
			Code:           req.Code,
			Name:           req.Name,
			Phone:          req.Phone,
			OpeningBalance: req.OpeningBalance,
			CurrentBalance: req.OpeningBalance,
		}
		customer.Touch(now)
		if err := s.parties.SaveCustomer(ctx, q, customer); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertCustomer, customer, now); err != nil {
			return err
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, "CREATE", "customer", customer.CustomerID, customer.Code, now); err != nil {
			return err
		}
		created = &customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *catalogService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	return s.parties.ListCustomers(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}

func (s *catalogService) CreateSupplier(ctx context.Context, req dto.CreatePartyRequest) (*domain.Supplier, error) {
	if req.Code == "" || req.Name == "" {
		return nil, fmt.Errorf("supplier code and name are required: %w", apperrors.ErrInvalidInput)
	}
	var created *domain.Supplier
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		supplier := domain.Supplier{
			SupplierID:     uuid.NewString(),
			Code:           req.Code,
			Name:           req.Name,
			Phone:          req.Phone,
			OpeningBalance: req.OpeningBalance,
			CurrentBalance: req.OpeningBalance,
		}
		supplier.Touch(now)
		if err := s.parties.SaveSupplier(ctx, q, supplier); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertSupplier, supplier, now); err != nil {
			return err
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, "CREATE", "supplier", supplier.SupplierID, supplier.Code, now); err != nil {
			return err
		}
		created = &supplier
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	return s.parties.ListSuppliers(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}

func (s *catalogService) CreateWarehouse(ctx context.Context, req dto.CreateWarehouseRequest) (*domain.Warehouse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("warehouse name is required: %w", apperrors.ErrInvalidInput)
	}
	var created *domain.Warehouse
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		warehouse := domain.Warehouse{
			WarehouseID: uuid.NewString(),
			Name:        req.Name,
		}
		warehouse.Touch(now)
		if err := s.catalog.SaveWarehouse(ctx, q, warehouse); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertWarehouse, warehouse, now); err != nil {
			return err
		}
		created = &warehouse
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *catalogService) UpdateSetting(ctx context.Context, req dto.UpdateSettingRequest) error {
	if req.Key == "" {
		return fmt.Errorf("setting key is required: %w", apperrors.ErrInvalidInput)
	}
	return s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		setting := domain.Setting{Key: req.Key, Value: req.Value, UpdatedAt: now}
		if err := s.activity.SaveSetting(ctx, q, setting); err != nil {
			return err
		}
		return enqueue(ctx, q, s.outbox, domain.ActionUpsertSetting, setting, now)
	})
}

func (s *catalogService) ListActivities(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	return s.activity.ListActivities(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}
