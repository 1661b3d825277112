package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// DealRepository stores deals with their cycle history serialized into
// the row, keeping the full agreement self-contained like the documents.
type DealRepository struct{}

// NewDealRepository creates the deal repository.
func NewDealRepository() portsrepo.DealRepository {
	return &DealRepository{}
}

type dealRow struct {
	domain.Deal
	CustomerIDsJSON string `db:"customer_ids"`
	CyclesJSON      string `db:"cycles"`
}

func (row *dealRow) decode() (*domain.Deal, error) {
	deal := row.Deal
	if err := json.Unmarshal([]byte(row.CustomerIDsJSON), &deal.CustomerIDs); err != nil {
		return nil, fmt.Errorf("failed to decode customer ids for deal %s: %w", deal.DealID, err)
	}
	if err := json.Unmarshal([]byte(row.CyclesJSON), &deal.Cycles); err != nil {
		return nil, fmt.Errorf("failed to decode cycles for deal %s: %w", deal.DealID, err)
	}
	return &deal, nil
}

func (r *DealRepository) SaveDeal(ctx context.Context, q sqlx.ExtContext, deal domain.Deal) error {
	customerIDs, err := json.Marshal(deal.CustomerIDs)
	if err != nil {
		return fmt.Errorf("failed to encode customer ids for deal %s: %w", deal.DealID, err)
	}
	cycles, err := json.Marshal(deal.Cycles)
	if err != nil {
		return fmt.Errorf("failed to encode cycles for deal %s: %w", deal.DealID, err)
	}
	row := dealRow{Deal: deal, CustomerIDsJSON: string(customerIDs), CyclesJSON: string(cycles)}
	query := `
		INSERT INTO deals (deal_id, doctor_name, representative, customer_ids, cycles, created_at, updated_at)
		VALUES (:deal_id, :doctor_name, :representative, :customer_ids, :cycles, :created_at, :updated_at)
		ON CONFLICT (deal_id) DO UPDATE SET
			doctor_name = excluded.doctor_name,
			representative = excluded.representative,
			customer_ids = excluded.customer_ids,
			cycles = excluded.cycles,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, row); err != nil {
		return fmt.Errorf("failed to save deal %s: %w", deal.DealID, err)
	}
	return nil
}

func (r *DealRepository) FindDealByID(ctx context.Context, q sqlx.ExtContext, dealID string) (*domain.Deal, error) {
	var row dealRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT * FROM deals WHERE deal_id = ?;`, dealID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find deal %s: %w", dealID, err)
	}
	return row.decode()
}

func (r *DealRepository) ListDeals(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.Deal, error) {
	rows := []dealRow{}
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT * FROM deals ORDER BY created_at DESC LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	deals := make([]domain.Deal, 0, len(rows))
	for i := range rows {
		deal, err := rows[i].decode()
		if err != nil {
			return nil, err
		}
		deals = append(deals, *deal)
	}
	return deals, nil
}
