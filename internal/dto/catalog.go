package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialBatchRequest describes opening stock created alongside a new
// product. It produces its own outbox entry, independent of the product's.
type InitialBatchRequest struct {
	WarehouseID   string          `json:"warehouseID" binding:"required"`
	BatchNumber   string          `json:"batchNumber" binding:"required"`
	Quantity      int64           `json:"quantity" binding:"required,gt=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	ExpiryDate    time.Time       `json:"expiryDate"`
}

// CreateProductRequest adds a catalog entry, optionally with opening stock.
type CreateProductRequest struct {
	Code         string               `json:"code" binding:"required"`
	Name         string               `json:"name" binding:"required"`
	GenericName  string               `json:"genericName"`
	Category     string               `json:"category"`
	InitialBatch *InitialBatchRequest `json:"initialBatch"`
}

// CreatePartyRequest adds a customer or supplier.
type CreatePartyRequest struct {
	Code           string          `json:"code" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Phone          string          `json:"phone"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// CreateWarehouseRequest adds a stock location.
type CreateWarehouseRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateSettingRequest writes one replicated configuration value.
type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}
