package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	agg "github.com/jhoicas/Almacen-api/internal/domain/analytics"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget de rentabilidad

// DashboardUseCase genera las tarjetas de la página principal: ventas del día y del mes,
// inventario y reabastecimientos pendientes.
type DashboardUseCase struct {
	reader repository.SnapshotReader
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reader repository.SnapshotReader, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{reader: reader, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres cálculos en paralelo sobre el mismo snapshot:
//  1. ventas de hoy      → TodaySales + TodaySaleCount
//  2. ventas del mes     → MonthlySales
//  3. ranking (top 5)    → TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)
	snap := uc.reader.Snapshot()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	todayEnd := todayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)

	type revenueResult struct {
		total decimal.Decimal
		count int
	}
	todayCh := make(chan revenueResult, 1)
	monthCh := make(chan revenueResult, 1)
	topCh := make(chan []agg.ProductMargin, 1)

	go func() {
		sales, items := agg.FilterSalesByPeriod(snap.Sales, snap.SaleItems, todayStart, todayEnd)
		todayCh <- revenueResult{sumLines(items), len(sales)}
	}()
	go func() {
		sales, items := agg.FilterSalesByPeriod(snap.Sales, snap.SaleItems, monthStart, todayEnd)
		monthCh <- revenueResult{sumLines(items), len(sales)}
	}()
	go func() {
		topCh <- agg.TopProfitableProducts(snap.Products, snap.Supplies, snap.SupplyItems, dashboardTopProducts)
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	summary := agg.SummaryTotals(snap.Products, snap.Sales, snap.SaleItems)

	return &dto.DashboardSummaryDTO{
		TodaySales:      today.total.Round(2),
		TodaySaleCount:  today.count,
		MonthlySales:    month.total.Round(2),
		ProductCount:    summary.ProductCount,
		StockUnits:      agg.StockUnits(snap.Products),
		LowStockCount:   summary.LowStockCount,
		PendingSupplies: agg.CountSupplies(snap.Supplies, entity.SupplyPending),
		TopProducts:     toMarginDTOs(top),
		DateLabel:       monthLabel(now),
	}, nil
}

func sumLines(items []entity.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
