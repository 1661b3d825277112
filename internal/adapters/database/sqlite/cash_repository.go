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

// CashRepository is the SQLite implementation for cash movements.
type CashRepository struct{}

// NewCashRepository creates the cash repository.
func NewCashRepository() portsrepo.CashRepository {
	return &CashRepository{}
}

func (r *CashRepository) SaveCashTransaction(ctx context.Context, q sqlx.ExtContext, txn domain.CashTransaction) error {
	query := `
		INSERT INTO cash_transactions (cash_id, voucher_number, cash_type, category, reference_id,
			amount, txn_date, notes, created_at, updated_at)
		VALUES (:cash_id, :voucher_number, :cash_type, :category, :reference_id,
			:amount, :txn_date, :notes, :created_at, :updated_at)
		ON CONFLICT (cash_id) DO UPDATE SET
			notes = excluded.notes,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, txn); err != nil {
		return fmt.Errorf("failed to save cash transaction %s: %w", txn.CashID, err)
	}
	return nil
}

func (r *CashRepository) FindCashTransactionByID(ctx context.Context, q sqlx.ExtContext, cashID string) (*domain.CashTransaction, error) {
	var txn domain.CashTransaction
	err := sqlx.GetContext(ctx, q, &txn, `SELECT * FROM cash_transactions WHERE cash_id = ?;`, cashID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cash transaction %s: %w", cashID, err)
	}
	return &txn, nil
}

func (r *CashRepository) ListCashTransactions(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.CashTransaction, error) {
	txns := []domain.CashTransaction{}
	err := sqlx.SelectContext(ctx, q, &txns,
		`SELECT * FROM cash_transactions ORDER BY created_at DESC LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash transactions: %w", err)
	}
	return txns, nil
}
