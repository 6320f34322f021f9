package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary: las tarjetas de la página principal.
type DashboardSummaryDTO struct {
	TodaySales     decimal.Decimal `json:"today_sales"`
	TodaySaleCount int             `json:"today_sale_count"`
	MonthlySales   decimal.Decimal `json:"monthly_sales"`

	ProductCount    int             `json:"product_count"`
	StockUnits      decimal.Decimal `json:"stock_units"`
	LowStockCount   int             `json:"low_stock_count"`
	PendingSupplies int             `json:"pending_supplies"`

	// Top 5 del ranking de rentabilidad
	TopProducts []ProductMarginDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Mayo 2025"
}
