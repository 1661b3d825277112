package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductTarget is one product quota inside a deal cycle.
type ProductTarget struct {
	ProductID string `json:"productID"`
	Quantity  int64  `json:"quantity"`
}

// DealCycle is one renewal period of a commission agreement. Cycles are
// immutable once superseded; only the current cycle may be edited.
type DealCycle struct {
	StartDate        time.Time       `json:"startDate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	Targets          []ProductTarget `json:"targets"`
}

// Deal is a renewable commission agreement with a doctor. Cycles[0] is
// the current cycle; renewal prepends, it never rewrites history.
type Deal struct {
	DealID         string      `db:"deal_id" json:"dealID"`
	DoctorName     string      `db:"doctor_name" json:"doctorName"`
	Representative string      `db:"representative" json:"representative"`
	CustomerIDs    []string    `db:"-" json:"customerIDs"`
	Cycles         []DealCycle `db:"-" json:"cycles"`
	AuditFields
}

// CurrentCycle returns the most recently added cycle, or nil for a deal
// with no cycles (which the ledger never produces).
func (d *Deal) CurrentCycle() *DealCycle {
	if len(d.Cycles) == 0 {
		return nil
	}
	return &d.Cycles[0]
}
