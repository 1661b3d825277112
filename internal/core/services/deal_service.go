package services

import (
	"context"
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

// dealService manages the commission deal lifecycle. Cycle history is
// prepend-only: renewal adds cycles[0], everything behind it is frozen.
type dealService struct {
	txm       portsrepo.TransactionManager
	deals     portsrepo.DealRepository
	parties   portsrepo.PartyRepository
	cash      portsrepo.CashRepository
	sequences portsrepo.SequenceRepository
	outbox    portsrepo.OutboxRepository
	activity  portsrepo.ActivityRepository
}

// NewDealService creates the deal service.
func NewDealService(
	txm portsrepo.TransactionManager,
	deals portsrepo.DealRepository,
	parties portsrepo.PartyRepository,
	cash portsrepo.CashRepository,
	sequences portsrepo.SequenceRepository,
	outbox portsrepo.OutboxRepository,
	activity portsrepo.ActivityRepository,
) portssvc.DealSvcFacade {
	return &dealService{
		txm:       txm,
		deals:     deals,
		parties:   parties,
		cash:      cash,
		sequences: sequences,
		outbox:    outbox,
		activity:  activity,
	}
}

var _ portssvc.DealSvcFacade = (*dealService)(nil)

func targetsFromRequest(reqs []dto.TargetRequest) []domain.ProductTarget {
	targets := make([]domain.ProductTarget, 0, len(reqs))
	for _, t := range reqs {
		targets = append(targets, domain.ProductTarget{ProductID: t.ProductID, Quantity: t.Quantity})
	}
	return targets
}

// bookCommission writes the expense voucher for a cycle's commission and
// enqueues it for replication.
func (s *dealService) bookCommission(ctx context.Context, q sqlx.ExtContext, dealID string, amount decimal.Decimal, now time.Time) error {
	period := domain.Period(now)
	n, err := s.sequences.NextNumber(ctx, q, domain.SeriesVoucher, period)
	if err != nil {
		return err
	}
	txn := domain.CashTransaction{
		CashID:        uuid.NewString(),
		VoucherNumber: domain.FormatDocNumber(domain.SeriesVoucher, period, n),
		Type:          domain.CashExpense,
		Category:      domain.CashDealCommission,
		ReferenceID:   dealID,
		Amount:        amount,
		TxnDate:       now,
		Notes:         "deal commission",
	}
	txn.Touch(now)
	if err := s.cash.SaveCashTransaction(ctx, q, txn); err != nil {
		return err
	}
	return enqueue(ctx, q, s.outbox, domain.ActionUpsertCash, txn, now)
}

// AddDeal opens an agreement with its first cycle. A positive commission
// amount books an expense voucher in the same transaction.
func (s *dealService) AddDeal(ctx context.Context, req dto.AddDealRequest) (*domain.Deal, error) {
	if req.DoctorName == "" {
		return nil, fmt.Errorf("doctor name is required: %w", apperrors.ErrInvalidInput)
	}
	if req.CommissionAmount.IsNegative() {
		return nil, fmt.Errorf("commission cannot be negative: %w", apperrors.ErrInvalidInput)
	}

	var created *domain.Deal
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		for _, customerID := range req.CustomerIDs {
			if _, err := s.parties.FindCustomerByID(ctx, q, customerID); err != nil {
				return fmt.Errorf("customer %s: %w", customerID, err)
			}
		}

		startDate := req.StartDate
		if startDate.IsZero() {
			startDate = now
		}
		deal := domain.Deal{
			DealID:         uuid.NewString(),
			DoctorName:     req.DoctorName,
			Representative: req.Representative,
			CustomerIDs:    req.CustomerIDs,
			Cycles: []domain.DealCycle{{
				StartDate:        startDate,
				CommissionAmount: req.CommissionAmount,
				Targets:          targetsFromRequest(req.Targets),
			}},
		}
		deal.Touch(now)
		if err := s.deals.SaveDeal(ctx, q, deal); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertDeal, deal, now); err != nil {
			return err
		}
		if req.CommissionAmount.IsPositive() {
			if err := s.bookCommission(ctx, q, deal.DealID, req.CommissionAmount, now); err != nil {
				return err
			}
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, "CREATE", "deal", deal.DealID, deal.DoctorName, now); err != nil {
			return err
		}
		created = &deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RenewDeal prepends a fresh cycle. Prior cycles are copied untouched;
// nothing ever rewrites them.
func (s *dealService) RenewDeal(ctx context.Context, dealID string, req dto.RenewDealRequest) (*domain.Deal, error) {
	if req.CommissionAmount.IsNegative() {
		return nil, fmt.Errorf("commission cannot be negative: %w", apperrors.ErrInvalidInput)
	}

	var renewed *domain.Deal
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		deal, err := s.deals.FindDealByID(ctx, q, dealID)
		if err != nil {
			return fmt.Errorf("deal %s: %w", dealID, err)
		}

		startDate := req.StartDate
		if startDate.IsZero() {
			startDate = now
		}
		cycle := domain.DealCycle{
			StartDate:        startDate,
			CommissionAmount: req.CommissionAmount,
			Targets:          targetsFromRequest(req.Targets),
		}
		deal.Cycles = append([]domain.DealCycle{cycle}, deal.Cycles...)
		deal.Touch(now)

		if err := s.deals.SaveDeal(ctx, q, *deal); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertDeal, deal, now); err != nil {
			return err
		}
		if req.CommissionAmount.IsPositive() {
			if err := s.bookCommission(ctx, q, deal.DealID, req.CommissionAmount, now); err != nil {
				return err
			}
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, "RENEW", "deal", deal.DealID, deal.DoctorName, now); err != nil {
			return err
		}
		renewed = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renewed, nil
}

// UpdateDeal rewrites metadata and the current cycle's targets only.
func (s *dealService) UpdateDeal(ctx context.Context, dealID string, req dto.UpdateDealRequest) (*domain.Deal, error) {
	var updated *domain.Deal
	err := s.txm.RunInTx(ctx, func(q sqlx.ExtContext) error {
		now := time.Now().UTC()
		deal, err := s.deals.FindDealByID(ctx, q, dealID)
		if err != nil {
			return fmt.Errorf("deal %s: %w", dealID, err)
		}
		if len(deal.Cycles) == 0 {
			return fmt.Errorf("deal %s has no current cycle: %w", dealID, apperrors.ErrConstraintViolation)
		}

		if req.DoctorName != "" {
			deal.DoctorName = req.DoctorName
		}
		if req.Representative != "" {
			deal.Representative = req.Representative
		}
		if req.CustomerIDs != nil {
			for _, customerID := range req.CustomerIDs {
				if _, err := s.parties.FindCustomerByID(ctx, q, customerID); err != nil {
					return fmt.Errorf("customer %s: %w", customerID, err)
				}
			}
			deal.CustomerIDs = req.CustomerIDs
		}
		if req.Targets != nil {
			deal.Cycles[0].Targets = targetsFromRequest(req.Targets)
		}
		deal.Touch(now)

		if err := s.deals.SaveDeal(ctx, q, *deal); err != nil {
			return err
		}
		if err := enqueue(ctx, q, s.outbox, domain.ActionUpsertDeal, deal, now); err != nil {
			return err
		}
		if err := logActivity(ctx, q, s.activity, s.outbox, "UPDATE", "deal", deal.DealID, deal.DoctorName, now); err != nil {
			return err
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *dealService) GetDeal(ctx context.Context, dealID string) (*domain.Deal, error) {
	return s.deals.FindDealByID(ctx, s.txm.Reader(), dealID)
}

func (s *dealService) ListDeals(ctx context.Context, limit, offset int) ([]domain.Deal, error) {
	return s.deals.ListDeals(ctx, s.txm.Reader(), normalizeLimit(limit), offset)
}
