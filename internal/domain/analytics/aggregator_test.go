package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/analytics"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msgAndArgs)
}

func at(layout string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", layout, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// fixture reproduce el dataset de demostración: leche, pan, manzanas.
func fixture() entity.Snapshot {
	return entity.Snapshot{
		Departments: []entity.Department{
			{ID: "d1", Name: "Lácteos"},
			{ID: "d2", Name: "Panadería"},
			{ID: "d3", Name: "Frutas"},
		},
		Products: []entity.Product{
			{ID: "p1", Name: "Leche", DepartmentID: "d1", Price: dec("89.90"), CurrentQty: dec("45"), MinThreshold: dec("10")},
			{ID: "p2", Name: "Pan blanco", DepartmentID: "d2", Price: dec("45.50"), CurrentQty: dec("5"), MinThreshold: dec("10")},
			{ID: "p3", Name: "Manzanas", DepartmentID: "d3", Price: dec("129.90"), CurrentQty: dec("0"), MinThreshold: dec("20")},
		},
		Sales: []entity.Sale{
			{ID: "s1", CreatedAt: at("2025-05-30T14:30")},
			{ID: "s2", CreatedAt: at("2025-05-29T15:45")},
		},
		SaleItems: []entity.SaleItem{
			{ID: "i1", SaleID: "s1", ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("89.90")},
			{ID: "i2", SaleID: "s1", ProductID: "p2", Quantity: dec("1"), UnitPrice: dec("45.50")},
			{ID: "i3", SaleID: "s2", ProductID: "p3", Quantity: dec("1.5"), UnitPrice: dec("129.90")},
		},
		Supplies: []entity.Supply{
			{ID: "u1", SupplyDate: at("2025-05-25T09:00"), Status: entity.SupplyReceived},
			{ID: "u2", SupplyDate: at("2025-06-02T10:00"), Status: entity.SupplyPending},
		},
		SupplyItems: []entity.SupplyItem{
			{ID: "si1", SupplyID: "u1", ProductID: "p1", Quantity: dec("50"), UnitPrice: dec("65.50")},
			{ID: "si2", SupplyID: "u2", ProductID: "p2", Quantity: dec("40"), UnitPrice: dec("30.20")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RevenueByDay
// ──────────────────────────────────────────────────────────────────────────────

func TestRevenueByDay_AgrupaPorFechaYOrdenaCronologicamente(t *testing.T) {
	s := fixture()

	days := analytics.RevenueByDay(s.Sales, s.SaleItems, time.UTC)

	require.Len(t, days, 2)
	assert.True(t, at("2025-05-29T00:00").Equal(days[0].Date))
	assertDecimal(t, "194.85", days[0].Total)
	assert.True(t, at("2025-05-30T00:00").Equal(days[1].Date))
	assertDecimal(t, "225.30", days[1].Total)
}

func TestRevenueByDay_MismoDiaSeSuma(t *testing.T) {
	sales := []entity.Sale{
		{ID: "a", CreatedAt: at("2025-05-30T09:00")},
		{ID: "b", CreatedAt: at("2025-05-30T21:00")},
	}
	items := []entity.SaleItem{
		{SaleID: "a", Quantity: dec("2"), UnitPrice: dec("89.90")},
		{SaleID: "b", Quantity: dec("1"), UnitPrice: dec("45.50")},
	}

	days := analytics.RevenueByDay(sales, items, time.UTC)

	require.Len(t, days, 1)
	assertDecimal(t, "225.30", days[0].Total)
}

// Las fechas "DD.MM.YYYY" no ordenan bien como texto: 01.06 < 30.05 lexicográficamente.
func TestRevenueByDay_NoOrdenaPorTexto(t *testing.T) {
	sales := []entity.Sale{
		{ID: "junio", CreatedAt: at("2025-06-01T10:00")},
		{ID: "mayo", CreatedAt: at("2025-05-30T10:00")},
	}

	days := analytics.RevenueByDay(sales, nil, time.UTC)

	require.Len(t, days, 2)
	assert.True(t, days[0].Date.Before(days[1].Date))
	assert.Equal(t, time.May, days[0].Date.Month())
}

func TestRevenueByDay_VentaSinLineasCreaBucketEnCero(t *testing.T) {
	days := analytics.RevenueByDay([]entity.Sale{{ID: "x", CreatedAt: at("2025-05-30T10:00")}}, nil, time.UTC)

	require.Len(t, days, 1)
	assertDecimal(t, "0", days[0].Total)
}

func TestRevenueByDay_UsaLaZonaHoraria(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	// 22:30 UTC del 29 es 01:30 del 30 en Moscú.
	sales := []entity.Sale{{ID: "x", CreatedAt: at("2025-05-29T22:30")}}

	days := analytics.RevenueByDay(sales, nil, moscow)

	require.Len(t, days, 1)
	assert.Equal(t, 30, days[0].Date.Day())
}

func TestRevenueByDay_VacioNoEsNil(t *testing.T) {
	days := analytics.RevenueByDay(nil, nil, nil)
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

// ──────────────────────────────────────────────────────────────────────────────
// RevenueByDepartment
// ──────────────────────────────────────────────────────────────────────────────

func TestRevenueByDepartment_AcumulaYOrdena(t *testing.T) {
	s := fixture()

	rows := analytics.RevenueByDepartment(s.SaleItems, s.Products, s.Departments)

	require.Len(t, rows, 3)
	assert.Equal(t, "Frutas", rows[0].Department)
	assertDecimal(t, "194.85", rows[0].Total)
	assert.Equal(t, "Lácteos", rows[1].Department)
	assertDecimal(t, "179.80", rows[1].Total)
	assert.Equal(t, "Panadería", rows[2].Department)
	assertDecimal(t, "45.50", rows[2].Total)
}

func TestRevenueByDepartment_OmiteReferenciasColgantesYDepartamentosSinVentas(t *testing.T) {
	s := fixture()
	s.Departments = append(s.Departments, entity.Department{ID: "d4", Name: "Limpieza"})
	s.Products[1].DepartmentID = "no-existe"
	s.SaleItems = append(s.SaleItems, entity.SaleItem{SaleID: "s1", ProductID: "borrado", Quantity: dec("3"), UnitPrice: dec("10")})

	rows := analytics.RevenueByDepartment(s.SaleItems, s.Products, s.Departments)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, "Limpieza", r.Department)
		assert.NotEqual(t, "Panadería", r.Department)
	}
}

func TestRevenueByDepartment_SumaIgualAlTotalMenosNoResueltos(t *testing.T) {
	s := fixture()
	s.SaleItems = append(s.SaleItems, entity.SaleItem{SaleID: "s1", ProductID: "borrado", Quantity: dec("3"), UnitPrice: dec("10")})

	rows := analytics.RevenueByDepartment(s.SaleItems, s.Products, s.Departments)
	summary := analytics.SummaryTotals(s.Products, s.Sales, s.SaleItems)

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Total)
	}
	assert.True(t, summary.TotalRevenue.Sub(dec("30")).Equal(sum))
}

func TestRevenueByDepartment_ConservaTotalesNegativos(t *testing.T) {
	s := fixture()
	s.Departments = append(s.Departments,
		entity.Department{ID: "d4", Name: "Limpieza"},
		entity.Department{ID: "d5", Name: "Bebidas"},
	)
	s.Products = append(s.Products,
		entity.Product{ID: "p4", Name: "Jabón", DepartmentID: "d4", Price: dec("10")},
		entity.Product{ID: "p5", Name: "Agua", DepartmentID: "d5", Price: dec("5")},
	)
	s.SaleItems = append(s.SaleItems,
		entity.SaleItem{SaleID: "s1", ProductID: "p4", Quantity: dec("-2"), UnitPrice: dec("10")},
		entity.SaleItem{SaleID: "s1", ProductID: "p5", Quantity: dec("0"), UnitPrice: dec("5")},
	)

	rows := analytics.RevenueByDepartment(s.SaleItems, s.Products, s.Departments)
	summary := analytics.SummaryTotals(s.Products, s.Sales, s.SaleItems)

	require.Len(t, rows, 4, "Bebidas suma cero y no aparece")
	last := rows[len(rows)-1]
	assert.Equal(t, "Limpieza", last.Department)
	assertDecimal(t, "-20", last.Total)

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Total)
	}
	assert.True(t, summary.TotalRevenue.Equal(sum))
}

// ──────────────────────────────────────────────────────────────────────────────
// UnitsSoldByProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestUnitsSoldByProduct_SumaUnidadesYOrdena(t *testing.T) {
	s := fixture()
	s.SaleItems = append(s.SaleItems,
		entity.SaleItem{ID: "i4", SaleID: "s2", ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("89.90")},
		entity.SaleItem{ID: "i5", SaleID: "s2", ProductID: "borrado", Quantity: dec("1.5"), UnitPrice: dec("10")},
	)

	rows := analytics.UnitsSoldByProduct(s.SaleItems, s.Products)

	require.Len(t, rows, 4)
	assert.Equal(t, "p1", rows[0].ProductID)
	assertDecimal(t, "3", rows[0].Units)
	assertDecimal(t, "269.70", rows[0].Revenue)
	// empate en 1.5 unidades: decide el nombre
	assert.Equal(t, "Manzanas", rows[1].Name)
	assert.Equal(t, "borrado", rows[2].ProductID)
	assert.Equal(t, analytics.UnknownProduct, rows[2].Name)
	assert.Equal(t, "p2", rows[3].ProductID)
}

func TestUnitsSoldByProduct_SinLineas(t *testing.T) {
	rows := analytics.UnitsSoldByProduct(nil, fixture().Products)
	assert.Empty(t, rows)
}

// ──────────────────────────────────────────────────────────────────────────────
// TopProfitableProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestTopProfitableProducts_MargenDeLaLeche(t *testing.T) {
	s := fixture()

	top := analytics.TopProfitableProducts(s.Products, s.Supplies, s.SupplyItems, 10)

	require.Len(t, top, 2)
	// pan: (45.50 - 30.20) / 30.20 ≈ 50.66 %, va primero
	assert.Equal(t, "p2", top[0].ProductID)
	assert.Equal(t, "p1", top[1].ProductID)
	assertDecimal(t, "65.50", top[1].AcquisitionPrice)
	assertDecimal(t, "37.25", top[1].MarginPercent.Round(2))
}

func TestTopProfitableProducts_SinReabastecimientoQuedaFuera(t *testing.T) {
	s := fixture()

	top := analytics.TopProfitableProducts(s.Products, s.Supplies, s.SupplyItems, 10)

	for _, p := range top {
		assert.NotEqual(t, "p3", p.ProductID, "manzanas no tienen precio de adquisición")
	}
	assert.Len(t, top, 2)
}

func TestTopProfitableProducts_UsaElReabastecimientoMasReciente(t *testing.T) {
	products := []entity.Product{{ID: "p", Name: "Leche", Price: dec("100")}}
	supplies := []entity.Supply{
		{ID: "nuevo", SupplyDate: at("2025-06-10T00:00"), Status: entity.SupplyReceived},
		{ID: "viejo", SupplyDate: at("2025-01-10T00:00"), Status: entity.SupplyReceived},
		{ID: "cancelado", SupplyDate: at("2025-07-10T00:00"), Status: entity.SupplyCancelled},
	}
	items := []entity.SupplyItem{
		{SupplyID: "nuevo", ProductID: "p", UnitPrice: dec("80")},
		{SupplyID: "viejo", ProductID: "p", UnitPrice: dec("50")},
		{SupplyID: "cancelado", ProductID: "p", UnitPrice: dec("10")},
	}

	top := analytics.TopProfitableProducts(products, supplies, items, 10)

	require.Len(t, top, 1)
	assertDecimal(t, "80", top[0].AcquisitionPrice)
	assertDecimal(t, "25", top[0].MarginPercent)
}

func TestTopProfitableProducts_ExcluyeMargenNoPositivoYTrunca(t *testing.T) {
	var products []entity.Product
	var items []entity.SupplyItem
	for i := 0; i < 15; i++ {
		id := string(rune('a' + i))
		products = append(products, entity.Product{ID: id, Name: id, Price: decimal.NewFromInt(int64(100 + i))})
		items = append(items, entity.SupplyItem{ProductID: id, UnitPrice: dec("100")})
	}

	top := analytics.TopProfitableProducts(products, nil, items, 5)

	require.Len(t, top, 5)
	for i, p := range top {
		assert.True(t, p.MarginPercent.IsPositive())
		if i > 0 {
			assert.True(t, top[i-1].MarginPercent.GreaterThan(p.MarginPercent))
		}
	}
	assert.Equal(t, "o", top[0].ProductID)
}

func TestTopProfitableProducts_NCeroUsaDefault(t *testing.T) {
	var products []entity.Product
	var items []entity.SupplyItem
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		products = append(products, entity.Product{ID: id, Name: id, Price: dec("200")})
		items = append(items, entity.SupplyItem{ProductID: id, UnitPrice: dec("100")})
	}

	assert.Len(t, analytics.TopProfitableProducts(products, nil, items, 0), analytics.DefaultTopN)
}

func TestMarginPercent_SinCostoEsCero(t *testing.T) {
	assert.True(t, analytics.MarginPercent(dec("10"), decimal.Zero).IsZero())
	assert.True(t, analytics.MarginPercent(dec("10"), dec("-1")).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// LowStockProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStockProducts_FiltraEstadoYOrden(t *testing.T) {
	s := fixture()

	low := analytics.LowStockProducts(s.Products, s.Departments)

	require.Len(t, low, 2)
	assert.Equal(t, "p3", low[0].ProductID)
	assert.Equal(t, analytics.StatusOutOfStock, low[0].Status)
	assert.Equal(t, "Frutas", low[0].Department)
	assert.Equal(t, "p2", low[1].ProductID)
	assert.Equal(t, analytics.StatusRunningLow, low[1].Status)
}

func TestLowStockProducts_UmbralExactoIncluido(t *testing.T) {
	products := []entity.Product{{ID: "x", Name: "x", CurrentQty: dec("10"), MinThreshold: dec("10")}}

	low := analytics.LowStockProducts(products, nil)

	require.Len(t, low, 1)
	assert.Equal(t, analytics.UnknownDepartment, low[0].Department)
}

func TestLowStockProducts_MinimoCeroEsCritico(t *testing.T) {
	products := []entity.Product{
		{ID: "a", Name: "Azúcar", CurrentQty: dec("1"), MinThreshold: dec("10")},
		{ID: "b", Name: "Bolsa", CurrentQty: dec("0"), MinThreshold: dec("0")},
		{ID: "c", Name: "Café", CurrentQty: dec("5"), MinThreshold: dec("0")}, // 5 > 0, no es stock bajo
	}

	low := analytics.LowStockProducts(products, nil)

	require.Len(t, low, 2)
	assert.Equal(t, "b", low[0].ProductID)
	assert.Equal(t, analytics.StatusOutOfStock, low[0].Status)
	assert.Equal(t, "a", low[1].ProductID)
}

// ──────────────────────────────────────────────────────────────────────────────
// SummaryTotals y propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestSummaryTotals(t *testing.T) {
	s := fixture()

	sum := analytics.SummaryTotals(s.Products, s.Sales, s.SaleItems)

	assert.Equal(t, 2, sum.SaleCount)
	assert.Equal(t, 3, sum.ProductCount)
	assert.Equal(t, 2, sum.LowStockCount)
	assertDecimal(t, "420.15", sum.TotalRevenue)
}

func TestSummaryTotals_IgualASumaDeDias(t *testing.T) {
	s := fixture()

	sum := analytics.SummaryTotals(s.Products, s.Sales, s.SaleItems)
	days := analytics.RevenueByDay(s.Sales, s.SaleItems, time.UTC)

	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.Total)
	}
	assert.True(t, sum.TotalRevenue.Equal(total))
}

func TestSummaryTotals_Vacio(t *testing.T) {
	sum := analytics.SummaryTotals(nil, nil, nil)
	assert.Zero(t, sum.SaleCount)
	assert.True(t, sum.TotalRevenue.IsZero())
}

func TestAgregador_EsIdempotente(t *testing.T) {
	s := fixture()

	assert.Equal(t, analytics.RevenueByDay(s.Sales, s.SaleItems, time.UTC), analytics.RevenueByDay(s.Sales, s.SaleItems, time.UTC))
	assert.Equal(t,
		analytics.TopProfitableProducts(s.Products, s.Supplies, s.SupplyItems, 10),
		analytics.TopProfitableProducts(s.Products, s.Supplies, s.SupplyItems, 10))
	assert.Equal(t, analytics.LowStockProducts(s.Products, s.Departments), analytics.LowStockProducts(s.Products, s.Departments))
	assert.Equal(t, fixture(), s, "las entradas no deben mutarse")
}

func TestFilterSalesByPeriod(t *testing.T) {
	s := fixture()

	sales, items := analytics.FilterSalesByPeriod(s.Sales, s.SaleItems, at("2025-05-30T00:00"), time.Time{})

	require.Len(t, sales, 1)
	assert.Equal(t, "s1", sales[0].ID)
	assert.Len(t, items, 2)
}

func TestStockUnitsYCountSupplies(t *testing.T) {
	s := fixture()
	assertDecimal(t, "50", analytics.StockUnits(s.Products))
	assert.Equal(t, 1, analytics.CountSupplies(s.Supplies, entity.SupplyPending))
}
