package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyItemRequest línea de un reabastecimiento.
type SupplyItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSupplyRequest entrada de POST /api/supplies. Sin supply_date se usa la fecha actual.
type CreateSupplyRequest struct {
	SupplierID string              `json:"supplier_id" validate:"required"`
	SupplyDate string              `json:"supply_date"` // YYYY-MM-DD
	Items      []SupplyItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateSupplyStatusRequest entrada de PATCH /api/supplies/:id/status.
type UpdateSupplyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending received completed cancelled"`
}

// SupplyItemResponse línea de reabastecimiento con su total.
type SupplyItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SupplyResponse reabastecimiento con líneas y costo total.
type SupplyResponse struct {
	ID           string               `json:"id"`
	SupplierID   string               `json:"supplier_id"`
	SupplierName string               `json:"supplier_name"`
	SupplyDate   time.Time            `json:"supply_date"`
	ApprovedBy   string               `json:"approved_by"`
	Status       string               `json:"status"`
	Items        []SupplyItemResponse `json:"items"`
	TotalCost    decimal.Decimal      `json:"total_cost"`
}

// SupplyFilter filtros de GET /api/supplies.
type SupplyFilter struct {
	Status string `query:"status"`
}
