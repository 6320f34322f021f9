package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyStatus estado de una entrega de proveedor.
type SupplyStatus string

const (
	SupplyPending   SupplyStatus = "pending"
	SupplyReceived  SupplyStatus = "received"
	SupplyCompleted SupplyStatus = "completed"
	SupplyCancelled SupplyStatus = "cancelled"
)

// Valid indica si el estado es uno de los conocidos.
func (s SupplyStatus) Valid() bool {
	switch s {
	case SupplyPending, SupplyReceived, SupplyCompleted, SupplyCancelled:
		return true
	}
	return false
}

// StockApplied indica si en este estado la mercancía ya entró al inventario.
func (s SupplyStatus) StockApplied() bool {
	return s == SupplyReceived || s == SupplyCompleted
}

// Supply cabecera de un reabastecimiento. Las líneas viven en SupplyItem.
type Supply struct {
	ID         string       `json:"id"`
	SupplierID string       `json:"supplier_id"`
	SupplyDate time.Time    `json:"supply_date"`
	ApprovedBy string       `json:"approved_by"`
	Status     SupplyStatus `json:"status"`
}

// SupplyItem línea de reabastecimiento; UnitPrice es el costo de adquisición.
type SupplyItem struct {
	ID        string          `json:"id"`
	SupplyID  string          `json:"supply_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal = Quantity × UnitPrice.
func (i SupplyItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
