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

// PartyRepository is the SQLite implementation for customers and suppliers.
type PartyRepository struct{}

// NewPartyRepository creates the party repository.
func NewPartyRepository() portsrepo.PartyRepository {
	return &PartyRepository{}
}

func (r *PartyRepository) SaveCustomer(ctx context.Context, q sqlx.ExtContext, customer domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, code, name, phone, opening_balance, current_balance, created_at, updated_at)
		VALUES (:customer_id, :code, :name, :phone, :opening_balance, :current_balance, :created_at, :updated_at)
		ON CONFLICT (customer_id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			phone = excluded.phone,
			opening_balance = excluded.opening_balance,
			current_balance = excluded.current_balance,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, customer); err != nil {
		return fmt.Errorf("failed to save customer %s: %w", customer.CustomerID, err)
	}
	return nil
}

func (r *PartyRepository) FindCustomerByID(ctx context.Context, q sqlx.ExtContext, customerID string) (*domain.Customer, error) {
	var customer domain.Customer
	err := sqlx.GetContext(ctx, q, &customer, `SELECT * FROM customers WHERE customer_id = ?;`, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return &customer, nil
}

func (r *PartyRepository) ListCustomers(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	err := sqlx.SelectContext(ctx, q, &customers,
		`SELECT * FROM customers ORDER BY name LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (r *PartyRepository) SaveSupplier(ctx context.Context, q sqlx.ExtContext, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, code, name, phone, opening_balance, current_balance, created_at, updated_at)
		VALUES (:supplier_id, :code, :name, :phone, :opening_balance, :current_balance, :created_at, :updated_at)
		ON CONFLICT (supplier_id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			phone = excluded.phone,
			opening_balance = excluded.opening_balance,
			current_balance = excluded.current_balance,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, supplier); err != nil {
		return fmt.Errorf("failed to save supplier %s: %w", supplier.SupplierID, err)
	}
	return nil
}

func (r *PartyRepository) FindSupplierByID(ctx context.Context, q sqlx.ExtContext, supplierID string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := sqlx.GetContext(ctx, q, &supplier, `SELECT * FROM suppliers WHERE supplier_id = ?;`, supplierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier %s: %w", supplierID, err)
	}
	return &supplier, nil
}

func (r *PartyRepository) ListSuppliers(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := sqlx.SelectContext(ctx, q, &suppliers,
		`SELECT * FROM suppliers ORDER BY name LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}
