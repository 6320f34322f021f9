// Package analytics contiene los casos de uso de reportes de la tienda: el reporte analítico
// completo, el resumen del dashboard y su exportación a XLSX/PDF.
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	agg "github.com/jhoicas/Almacen-api/internal/domain/analytics"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const maxTopN = 100

var hundred = decimal.NewFromInt(100)

// AnalyticsUseCase arma el reporte analítico sobre un snapshot consistente del estado.
type AnalyticsUseCase struct {
	reader repository.SnapshotReader
	loc    *time.Location
}

// NewAnalyticsUseCase construye el caso de uso. loc define el día calendario de cada venta.
func NewAnalyticsUseCase(reader repository.SnapshotReader, loc *time.Location) *AnalyticsUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsUseCase{reader: reader, loc: loc}
}

// Report genera el reporte del período. Sin fechas se usa todo el historial; el período acota
// las ventas (resumen, series, departamentos y unidades por producto), no el catálogo ni el stock.
func (uc *AnalyticsUseCase) Report(ctx context.Context, req dto.AnalyticsReportRequest) (*dto.AnalyticsReportDTO, error) {
	topN := req.TopN
	if topN <= 0 {
		topN = agg.DefaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}
	from, to, err := dto.PeriodRequest{StartDate: req.StartDate, EndDate: req.EndDate}.Parse(uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	snap := uc.reader.Snapshot()
	sales, items := agg.FilterSalesByPeriod(snap.Sales, snap.SaleItems, from, to)

	// Cada bloque es una función pura sobre el mismo snapshot: se calculan en paralelo.
	var (
		wg      sync.WaitGroup
		days    []agg.DailyRevenue
		depts   []agg.DepartmentRevenue
		units   []agg.ProductSales
		top     []agg.ProductMargin
		low     []agg.LowStockProduct
		summary agg.Summary
	)
	wg.Add(6)
	go func() { defer wg.Done(); days = agg.RevenueByDay(sales, items, uc.loc) }()
	go func() { defer wg.Done(); depts = agg.RevenueByDepartment(items, snap.Products, snap.Departments) }()
	go func() { defer wg.Done(); units = agg.UnitsSoldByProduct(items, snap.Products) }()
	go func() { defer wg.Done(); top = agg.TopProfitableProducts(snap.Products, snap.Supplies, snap.SupplyItems, topN) }()
	go func() { defer wg.Done(); low = agg.LowStockProducts(snap.Products, snap.Departments) }()
	go func() { defer wg.Done(); summary = agg.SummaryTotals(snap.Products, sales, items) }()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &dto.AnalyticsReportDTO{
		Period:       dto.PeriodDTO{StartDate: req.StartDate, EndDate: req.EndDate},
		Summary:      toSummaryDTO(summary),
		RevenueByDay: toDailyDTOs(days),
		ByDepartment: toDepartmentDTOs(depts),
		ProductSales: toProductSalesDTOs(units),
		TopProducts:  toMarginDTOs(top),
		LowStock:     toLowStockDTOs(low),
	}, nil
}

// LowStock devuelve solo el listado de stock bajo.
func (uc *AnalyticsUseCase) LowStock() []dto.LowStockDTO {
	snap := uc.reader.Snapshot()
	return toLowStockDTOs(agg.LowStockProducts(snap.Products, snap.Departments))
}

// Summary devuelve los totales generales de todo el historial.
func (uc *AnalyticsUseCase) Summary() dto.SummaryDTO {
	snap := uc.reader.Snapshot()
	return toSummaryDTO(agg.SummaryTotals(snap.Products, snap.Sales, snap.SaleItems))
}

// ── Mapeo a DTO ───────────────────────────────────────────────────────────────

func toSummaryDTO(s agg.Summary) dto.SummaryDTO {
	return dto.SummaryDTO{
		SaleCount:     s.SaleCount,
		TotalRevenue:  s.TotalRevenue.Round(2),
		ProductCount:  s.ProductCount,
		LowStockCount: s.LowStockCount,
	}
}

func toDailyDTOs(days []agg.DailyRevenue) []dto.DailyRevenueDTO {
	out := make([]dto.DailyRevenueDTO, 0, len(days))
	for _, d := range days {
		out = append(out, dto.DailyRevenueDTO{
			Date:  d.Date.Format("2006-01-02"),
			Label: d.Date.Format("02.01.2006"),
			Total: d.Total.Round(2),
		})
	}
	return out
}

func toDepartmentDTOs(depts []agg.DepartmentRevenue) []dto.DepartmentRevenueDTO {
	total := decimal.Zero
	for _, d := range depts {
		total = total.Add(d.Total)
	}
	out := make([]dto.DepartmentRevenueDTO, 0, len(depts))
	for _, d := range depts {
		share := decimal.Zero
		if total.IsPositive() {
			share = d.Total.Div(total).Mul(hundred)
		}
		out = append(out, dto.DepartmentRevenueDTO{
			DepartmentID: d.DepartmentID,
			Department:   d.Department,
			Total:        d.Total.Round(2),
			SharePct:     share.Round(2),
		})
	}
	return out
}

func toProductSalesDTOs(rows []agg.ProductSales) []dto.ProductSalesDTO {
	out := make([]dto.ProductSalesDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductSalesDTO{
			ProductID: r.ProductID,
			Name:      r.Name,
			Units:     r.Units,
			Revenue:   r.Revenue.Round(2),
		})
	}
	return out
}

func toMarginDTOs(top []agg.ProductMargin) []dto.ProductMarginDTO {
	out := make([]dto.ProductMarginDTO, 0, len(top))
	for i, p := range top {
		out = append(out, dto.ProductMarginDTO{
			Rank:             i + 1,
			ProductID:        p.ProductID,
			Name:             p.Name,
			SalePrice:        p.SalePrice.Round(2),
			AcquisitionPrice: p.AcquisitionPrice.Round(2),
			MarginPct:        p.MarginPercent.Round(2),
		})
	}
	return out
}

func toLowStockDTOs(low []agg.LowStockProduct) []dto.LowStockDTO {
	out := make([]dto.LowStockDTO, 0, len(low))
	for _, l := range low {
		out = append(out, dto.LowStockDTO{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Department: l.Department,
			Current:    l.Current,
			Minimum:    l.Minimum,
			Status:     l.Status,
		})
	}
	return out
}
