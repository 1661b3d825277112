package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// CatalogRepository is the SQLite implementation for products,
// warehouses and batches. Methods run against whatever executor the
// caller passes, inside or outside a transaction.
type CatalogRepository struct{}

// NewCatalogRepository creates the catalog repository.
func NewCatalogRepository() portsrepo.CatalogRepository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) SaveProduct(ctx context.Context, q sqlx.ExtContext, product domain.Product) error {
	query := `
		INSERT INTO products (product_id, code, name, generic_name, category, created_at, updated_at)
		VALUES (:product_id, :code, :name, :generic_name, :category, :created_at, :updated_at)
		ON CONFLICT (product_id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			generic_name = excluded.generic_name,
			category = excluded.category,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, product); err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ProductID, err)
	}
	return nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, q sqlx.ExtContext, productID string) (*domain.Product, error) {
	var product domain.Product
	err := sqlx.GetContext(ctx, q, &product, `SELECT * FROM products WHERE product_id = ?;`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return &product, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Product, error) {
	products := []domain.Product{}
	err := sqlx.SelectContext(ctx, q, &products,
		`SELECT * FROM products ORDER BY name LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *CatalogRepository) SaveWarehouse(ctx context.Context, q sqlx.ExtContext, warehouse domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (warehouse_id, name, created_at, updated_at)
		VALUES (:warehouse_id, :name, :created_at, :updated_at)
		ON CONFLICT (warehouse_id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, warehouse); err != nil {
		return fmt.Errorf("failed to save warehouse %s: %w", warehouse.WarehouseID, err)
	}
	return nil
}

func (r *CatalogRepository) FindWarehouseByID(ctx context.Context, q sqlx.ExtContext, warehouseID string) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	err := sqlx.GetContext(ctx, q, &warehouse, `SELECT * FROM warehouses WHERE warehouse_id = ?;`, warehouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find warehouse %s: %w", warehouseID, err)
	}
	return &warehouse, nil
}

func (r *CatalogRepository) SaveBatch(ctx context.Context, q sqlx.ExtContext, batch domain.Batch) error {
	query := `
		INSERT INTO batches (batch_id, product_id, warehouse_id, batch_number, quantity,
			purchase_price, selling_price, expiry_date, status, created_at, updated_at)
		VALUES (:batch_id, :product_id, :warehouse_id, :batch_number, :quantity,
			:purchase_price, :selling_price, :expiry_date, :status, :created_at, :updated_at)
		ON CONFLICT (batch_id) DO UPDATE SET
			quantity = excluded.quantity,
			purchase_price = excluded.purchase_price,
			selling_price = excluded.selling_price,
			expiry_date = excluded.expiry_date,
			status = excluded.status,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, batch); err != nil {
		return fmt.Errorf("failed to save batch %s: %w", batch.BatchID, err)
	}
	return nil
}

func (r *CatalogRepository) FindBatchByID(ctx context.Context, q sqlx.ExtContext, batchID string) (*domain.Batch, error) {
	var batch domain.Batch
	err := sqlx.GetContext(ctx, q, &batch, `SELECT * FROM batches WHERE batch_id = ?;`, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	return &batch, nil
}

func (r *CatalogRepository) FindBatchByKey(ctx context.Context, q sqlx.ExtContext, productID, warehouseID, batchNumber string) (*domain.Batch, error) {
	var batch domain.Batch
	err := sqlx.GetContext(ctx, q, &batch,
		`SELECT * FROM batches WHERE product_id = ? AND warehouse_id = ? AND batch_number = ?;`,
		productID, warehouseID, batchNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find batch %s/%s/%s: %w", productID, warehouseID, batchNumber, err)
	}
	return &batch, nil
}

func (r *CatalogRepository) ListBatchesByProduct(ctx context.Context, q sqlx.ExtContext, productID string) ([]domain.Batch, error) {
	batches := []domain.Batch{}
	err := sqlx.SelectContext(ctx, q, &batches,
		`SELECT * FROM batches WHERE product_id = ? ORDER BY expiry_date;`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches for product %s: %w", productID, err)
	}
	return batches, nil
}

func (r *CatalogRepository) ListBatchesByWarehouse(ctx context.Context, q sqlx.ExtContext, warehouseID string) ([]domain.Batch, error) {
	batches := []domain.Batch{}
	err := sqlx.SelectContext(ctx, q, &batches,
		`SELECT * FROM batches WHERE warehouse_id = ? ORDER BY batch_number;`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches for warehouse %s: %w", warehouseID, err)
	}
	return batches, nil
}
