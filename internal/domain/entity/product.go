package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// CurrentQty y MinThreshold son decimales porque hay productos a granel (ej. 1.5 kg de manzanas).
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DepartmentID string          `json:"department_id"`
	SupplierID   string          `json:"supplier_id"`
	Grade        string          `json:"grade"`
	Price        decimal.Decimal `json:"price"`            // precio de venta
	CurrentQty   decimal.Decimal `json:"current_quantity"` // existencias actuales
	MinThreshold decimal.Decimal `json:"min_threshold"`    // umbral mínimo de stock
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	StorageCond  string          `json:"storage_cond"`
}

// IsLowStock indica si las existencias están en o por debajo del umbral mínimo.
func (p Product) IsLowStock() bool {
	return p.CurrentQty.LessThanOrEqual(p.MinThreshold)
}
