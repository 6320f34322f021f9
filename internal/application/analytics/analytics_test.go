package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(y int, m time.Month, d, h int) time.Time { return time.Date(y, m, d, h, 0, 0, 0, time.UTC) }

func demoStore() *store.Store {
	return store.NewMemory(entity.Snapshot{
		Departments: []entity.Department{{ID: "d1", Name: "Lácteos"}, {ID: "d2", Name: "Panadería"}, {ID: "d3", Name: "Frutas"}},
		Products: []entity.Product{
			{ID: "p1", Name: "Leche", DepartmentID: "d1", Price: dec("89.90"), CurrentQty: dec("45"), MinThreshold: dec("10")},
			{ID: "p2", Name: "Pan blanco", DepartmentID: "d2", Price: dec("45.50"), CurrentQty: dec("5"), MinThreshold: dec("10")},
			{ID: "p3", Name: "Manzanas", DepartmentID: "d3", Price: dec("129.90"), CurrentQty: dec("0"), MinThreshold: dec("20")},
		},
		Sales: []entity.Sale{{ID: "s1", CreatedAt: at(2025, 5, 30, 14)}, {ID: "s2", CreatedAt: at(2025, 5, 29, 15)}},
		SaleItems: []entity.SaleItem{
			{SaleID: "s1", ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("89.90")},
			{SaleID: "s1", ProductID: "p2", Quantity: dec("1"), UnitPrice: dec("45.50")},
			{SaleID: "s2", ProductID: "p3", Quantity: dec("1.5"), UnitPrice: dec("129.90")},
		},
		Supplies:    []entity.Supply{{ID: "u1", SupplyDate: at(2025, 5, 25, 9), Status: entity.SupplyPending}},
		SupplyItems: []entity.SupplyItem{{SupplyID: "u1", ProductID: "p1", Quantity: dec("50"), UnitPrice: dec("65.50")}},
	})
}

func TestReport_Completo(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(demoStore(), time.UTC)

	r, err := uc.Report(context.Background(), dto.AnalyticsReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Summary.SaleCount)
	assert.True(t, r.Summary.TotalRevenue.Equal(dec("420.15")))

	require.Len(t, r.RevenueByDay, 2)
	assert.Equal(t, "29.05.2025", r.RevenueByDay[0].Label)
	assert.Equal(t, "2025-05-30", r.RevenueByDay[1].Date)
	assert.True(t, r.RevenueByDay[1].Total.Equal(dec("225.30")))

	require.Len(t, r.ByDepartment, 3)
	assert.Equal(t, "Frutas", r.ByDepartment[0].Department)
	share := decimal.Zero
	for _, d := range r.ByDepartment {
		share = share.Add(d.SharePct)
	}
	assert.True(t, share.Sub(dec("100")).Abs().LessThanOrEqual(dec("0.02")), share.String())

	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, 1, r.TopProducts[0].Rank)
	assert.True(t, r.TopProducts[0].MarginPct.Equal(dec("37.25")))

	require.Len(t, r.LowStock, 2)
	assert.Equal(t, "out of stock", r.LowStock[0].Status)
}

func TestReport_PeriodoAcotaLasVentas(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(demoStore(), time.UTC)

	r, err := uc.Report(context.Background(), dto.AnalyticsReportRequest{StartDate: "2025-05-30", EndDate: "2025-05-30"})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Summary.SaleCount)
	assert.True(t, r.Summary.TotalRevenue.Equal(dec("225.30")))
	require.Len(t, r.RevenueByDay, 1)
	require.Len(t, r.ProductSales, 2, "solo productos vendidos en el período")
	assert.Equal(t, "p1", r.ProductSales[0].ProductID)
	assert.True(t, r.ProductSales[0].Units.Equal(dec("2")))
	assert.True(t, r.ProductSales[0].Revenue.Equal(dec("179.80")))
	assert.Len(t, r.LowStock, 2, "el stock no depende del período")
}

func TestReport_FechaInvalida(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(demoStore(), time.UTC)

	_, err := uc.Report(context.Background(), dto.AnalyticsReportRequest{StartDate: "ayer"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReport_EstadoVacio(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(store.NewMemory(entity.Snapshot{}), time.UTC)

	r, err := uc.Report(context.Background(), dto.AnalyticsReportRequest{TopN: 500})
	require.NoError(t, err)

	assert.NotNil(t, r.RevenueByDay)
	assert.NotNil(t, r.ByDepartment)
	assert.NotNil(t, r.ProductSales)
	assert.NotNil(t, r.TopProducts)
	assert.NotNil(t, r.LowStock)
	assert.True(t, r.Summary.TotalRevenue.IsZero())
}

func TestDashboard_GetSummary(t *testing.T) {
	uc := analytics.NewDashboardUseCase(demoStore(), time.UTC).
		WithClock(func() time.Time { return at(2025, 5, 30, 18) })

	s, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, s.TodaySales.Equal(dec("225.30")))
	assert.Equal(t, 1, s.TodaySaleCount)
	assert.True(t, s.MonthlySales.Equal(dec("420.15")))
	assert.Equal(t, 3, s.ProductCount)
	assert.True(t, s.StockUnits.Equal(dec("50")))
	assert.Equal(t, 2, s.LowStockCount)
	assert.Equal(t, 1, s.PendingSupplies)
	assert.Equal(t, "Mayo 2025", s.DateLabel)
}

// fakeRenderer registra el reporte recibido.
type fakeRenderer struct{ got *dto.AnalyticsReportDTO }

func (f *fakeRenderer) Render(r *dto.AnalyticsReportDTO) ([]byte, error) {
	f.got = r
	return []byte("ok"), nil
}
func (f *fakeRenderer) ContentType() string { return "text/plain" }
func (f *fakeRenderer) Extension() string   { return "txt" }

func TestExport_UsaElRendererDelFormato(t *testing.T) {
	r := &fakeRenderer{}
	uc := analytics.NewReportExportUseCase(analytics.NewAnalyticsUseCase(demoStore(), time.UTC), r)

	file, err := uc.Export(context.Background(), "txt", dto.AnalyticsReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, []byte("ok"), file.Data)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.Contains(t, file.Name, ".txt")
	require.NotNil(t, r.got)
	assert.Equal(t, 2, r.got.Summary.SaleCount)

	_, err = uc.Export(context.Background(), "docx", dto.AnalyticsReportRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
