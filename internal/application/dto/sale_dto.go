package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta nueva. Sin unit_price se usa el precio del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada de POST /api/sales.
type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1"`
}

// SaleItemResponse línea de venta con su total.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"creation_date"`
	CashierID string             `json:"cashier_id"`
	Items     []SaleItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
}

// SaleFilter filtros de GET /api/sales.
type SaleFilter struct {
	PageRequest
	PeriodRequest
}

// SaleListResponse lista paginada de ventas (más recientes primero).
type SaleListResponse struct {
	Items []SaleResponse  `json:"items"`
	Page  PageResponse    `json:"page"`
	Total decimal.Decimal `json:"total"` // suma de todas las ventas del filtro, no solo de la página
}
