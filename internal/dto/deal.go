package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetRequest is one product quota inside a deal cycle.
type TargetRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// AddDealRequest opens a commission agreement with its first cycle. A
// positive CommissionAmount also books an expense voucher.
type AddDealRequest struct {
	DoctorName       string          `json:"doctorName" binding:"required"`
	Representative   string          `json:"representative"`
	CustomerIDs      []string        `json:"customerIDs"`
	StartDate        time.Time       `json:"startDate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	Targets          []TargetRequest `json:"targets" binding:"dive"`
}

// RenewDealRequest prepends a fresh cycle; prior cycles stay untouched.
type RenewDealRequest struct {
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	Targets          []TargetRequest `json:"targets" binding:"dive"`
	StartDate        time.Time       `json:"startDate"`
}

// UpdateDealRequest rewrites deal metadata and the current cycle's
// targets only; historical cycles cannot be addressed.
type UpdateDealRequest struct {
	DoctorName     string          `json:"doctorName"`
	Representative string          `json:"representative"`
	CustomerIDs    []string        `json:"customerIDs"`
	Targets        []TargetRequest `json:"targets" binding:"dive"`
}
