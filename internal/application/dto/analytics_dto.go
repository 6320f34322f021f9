package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// AnalyticsReportRequest parámetros para GET /api/analytics/report.
type AnalyticsReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; vacío = sin límite
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; vacío = sin límite
	TopN      int    `query:"top_n"`      // productos del ranking (default 10, max 100)
}

// ── Bloques del reporte ───────────────────────────────────────────────────────

// PeriodDTO rango de fechas del reporte; vacío significa sin límite.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SummaryDTO totales generales.
type SummaryDTO struct {
	SaleCount     int             `json:"sale_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	ProductCount  int             `json:"product_count"`
	LowStockCount int             `json:"low_stock_count"`
}

// DailyRevenueDTO punto de la serie de ingresos diarios.
type DailyRevenueDTO struct {
	Date  string          `json:"date"`  // YYYY-MM-DD, orden cronológico
	Label string          `json:"label"` // DD.MM.YYYY para mostrar
	Total decimal.Decimal `json:"total"`
}

// DepartmentRevenueDTO ingresos de un departamento y su participación.
type DepartmentRevenueDTO struct {
	DepartmentID string          `json:"department_id"`
	Department   string          `json:"department"`
	Total        decimal.Decimal `json:"total"`
	SharePct     decimal.Decimal `json:"share_pct"` // Total / suma de departamentos * 100
}

// ProductMarginDTO fila del ranking de rentabilidad.
type ProductMarginDTO struct {
	Rank             int             `json:"rank"`
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	AcquisitionPrice decimal.Decimal `json:"acquisition_price"`
	MarginPct        decimal.Decimal `json:"margin_pct"`
}

// ProductSalesDTO unidades vendidas de un producto en el período.
type ProductSalesDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Units     decimal.Decimal `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LowStockDTO fila del listado de stock bajo.
type LowStockDTO struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Department string          `json:"department"`
	Current    decimal.Decimal `json:"current_quantity"`
	Minimum    decimal.Decimal `json:"min_threshold"`
	Status     string          `json:"status"` // "out of stock" | "running low"
}

// ── Reporte combinado ─────────────────────────────────────────────────────────

// AnalyticsReportDTO respuesta completa de GET /api/analytics/report.
type AnalyticsReportDTO struct {
	Period       PeriodDTO              `json:"period"`
	Summary      SummaryDTO             `json:"summary"`
	RevenueByDay []DailyRevenueDTO      `json:"revenue_by_day"`
	ByDepartment []DepartmentRevenueDTO `json:"revenue_by_department"`
	ProductSales []ProductSalesDTO      `json:"product_sales"`
	TopProducts  []ProductMarginDTO     `json:"top_profitable_products"`
	LowStock     []LowStockDTO          `json:"low_stock"`
}
