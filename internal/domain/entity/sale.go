package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta. Las líneas viven en SaleItem (relación uno a muchos por SaleID).
type Sale struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"creation_date"`
	CashierID string    `json:"cashier_id"`
}

// SaleItem línea de venta: cantidad y precio unitario al momento de la venta.
type SaleItem struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal = Quantity × UnitPrice.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
