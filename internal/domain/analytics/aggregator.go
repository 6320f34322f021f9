// Package analytics contiene el agregador de métricas de la tienda: funciones puras que reciben
// snapshots de solo lectura de las colecciones y devuelven valores derivados listos para mostrar.
//
// Ninguna función muta sus entradas, hace I/O ni devuelve error. Las referencias colgantes
// (una línea que apunta a un producto borrado) se omiten de las sumas; las colecciones vacías
// producen resultados vacíos pero no nil.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DefaultTopN número de productos del ranking de rentabilidad si no se indica otro.
const DefaultTopN = 10

// Etiquetas de estado del listado de stock bajo.
const (
	StatusOutOfStock = "out of stock"
	StatusRunningLow = "running low"
)

// UnknownDepartment etiqueta para productos cuyo departamento no existe.
const UnknownDepartment = "Unknown"

// UnknownProduct etiqueta para líneas de venta cuyo producto fue eliminado.
const UnknownProduct = "Unknown"

var hundred = decimal.NewFromInt(100)

// DailyRevenue ingresos de un día calendario. Date es la medianoche del día en la zona usada.
type DailyRevenue struct {
	Date  time.Time
	Total decimal.Decimal
}

// DepartmentRevenue ingresos acumulados de un departamento.
type DepartmentRevenue struct {
	DepartmentID string
	Department   string
	Total        decimal.Decimal
}

// ProductMargin rentabilidad de un producto: precio de venta contra precio de adquisición.
type ProductMargin struct {
	ProductID        string
	Name             string
	SalePrice        decimal.Decimal
	AcquisitionPrice decimal.Decimal
	MarginPercent    decimal.Decimal
}

// LowStockProduct producto con existencias en o por debajo de su mínimo.
type LowStockProduct struct {
	ProductID  string
	Name       string
	Department string
	Current    decimal.Decimal
	Minimum    decimal.Decimal
	Status     string
}

// ProductSales unidades vendidas de un producto y lo que recaudaron.
type ProductSales struct {
	ProductID string
	Name      string
	Units     decimal.Decimal
	Revenue   decimal.Decimal
}

// Summary totales generales de la tienda.
type Summary struct {
	SaleCount     int
	TotalRevenue  decimal.Decimal
	ProductCount  int
	LowStockCount int
}

// ── Ingresos por día ──────────────────────────────────────────────────────────

// RevenueByDay agrupa las ventas por día calendario (en loc) y suma sus líneas.
// Cada fecha con al menos una venta aparece, aunque la venta no tenga líneas (total cero).
// Las líneas cuya venta no existe no pertenecen a ningún día y se ignoran.
// El resultado va ordenado por fecha real ascendente.
func RevenueByDay(sales []entity.Sale, items []entity.SaleItem, loc *time.Location) []DailyRevenue {
	if loc == nil {
		loc = time.Local
	}

	saleTotals := make(map[string]decimal.Decimal, len(sales))
	for _, it := range items {
		saleTotals[it.SaleID] = saleTotals[it.SaleID].Add(it.LineTotal())
	}

	buckets := make(map[int64]*DailyRevenue)
	seen := make(map[string]struct{}, len(sales))
	for _, s := range sales {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}

		day := startOfDay(s.CreatedAt, loc)
		b, ok := buckets[day.Unix()]
		if !ok {
			b = &DailyRevenue{Date: day, Total: decimal.Zero}
			buckets[day.Unix()] = b
		}
		b.Total = b.Total.Add(saleTotals[s.ID])
	}

	out := make([]DailyRevenue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ── Ingresos por departamento ─────────────────────────────────────────────────

// RevenueByDepartment acumula el total de cada línea en el departamento de su producto.
// Líneas sin producto o sin departamento resolubles se omiten; los departamentos con total
// cero no aparecen y los negativos se reportan tal cual. Orden: total descendente, luego nombre.
func RevenueByDepartment(items []entity.SaleItem, products []entity.Product, departments []entity.Department) []DepartmentRevenue {
	productDept := make(map[string]string, len(products))
	for _, p := range products {
		productDept[p.ID] = p.DepartmentID
	}
	deptByID := make(map[string]entity.Department, len(departments))
	for _, d := range departments {
		deptByID[d.ID] = d
	}

	totals := make(map[string]decimal.Decimal)
	for _, it := range items {
		deptID, ok := productDept[it.ProductID]
		if !ok {
			continue
		}
		if _, ok := deptByID[deptID]; !ok {
			continue
		}
		totals[deptID] = totals[deptID].Add(it.LineTotal())
	}

	out := make([]DepartmentRevenue, 0, len(totals))
	for id, total := range totals {
		if total.IsZero() {
			continue
		}
		out = append(out, DepartmentRevenue{
			DepartmentID: id,
			Department:   deptByID[id].Name,
			Total:        total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.DepartmentID < b.DepartmentID
	})
	return out
}

// ── Unidades por producto ─────────────────────────────────────────────────────

// UnitsSoldByProduct suma cantidades e ingresos de las líneas por producto. Los productos que
// ya no existen conservan su ID y se etiquetan UnknownProduct. Orden: unidades descendente,
// luego nombre y luego ID.
func UnitsSoldByProduct(items []entity.SaleItem, products []entity.Product) []ProductSales {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	byID := make(map[string]*ProductSales)
	order := make([]string, 0)
	for _, it := range items {
		row, ok := byID[it.ProductID]
		if !ok {
			name, known := names[it.ProductID]
			if !known {
				name = UnknownProduct
			}
			row = &ProductSales{ProductID: it.ProductID, Name: name}
			byID[it.ProductID] = row
			order = append(order, it.ProductID)
		}
		row.Units = row.Units.Add(it.Quantity)
		row.Revenue = row.Revenue.Add(it.LineTotal())
	}

	out := make([]ProductSales, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Units.Equal(b.Units) {
			return a.Units.GreaterThan(b.Units)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ProductID < b.ProductID
	})
	return out
}

// ── Rentabilidad por producto ─────────────────────────────────────────────────

// AcquisitionPrices resuelve el precio de adquisición de cada producto: el precio unitario de la
// línea del reabastecimiento más reciente (por SupplyDate). Los reabastecimientos cancelados no
// cuentan; las líneas cuyo reabastecimiento no existe se tratan como las más antiguas. En empate
// de fecha gana la línea que aparece después.
func AcquisitionPrices(supplies []entity.Supply, supplyItems []entity.SupplyItem) map[string]decimal.Decimal {
	supplyByID := make(map[string]entity.Supply, len(supplies))
	for _, s := range supplies {
		supplyByID[s.ID] = s
	}

	type candidate struct {
		date  time.Time
		price decimal.Decimal
	}
	best := make(map[string]candidate)
	for _, it := range supplyItems {
		var date time.Time
		if s, ok := supplyByID[it.SupplyID]; ok {
			if s.Status == entity.SupplyCancelled {
				continue
			}
			date = s.SupplyDate
		}
		cur, ok := best[it.ProductID]
		if !ok || !date.Before(cur.date) {
			best[it.ProductID] = candidate{date: date, price: it.UnitPrice}
		}
	}

	out := make(map[string]decimal.Decimal, len(best))
	for id, c := range best {
		out[id] = c.price
	}
	return out
}

// MarginPercent = (venta - adquisición) / adquisición × 100. Sin precio de adquisición
// positivo el margen es cero.
func MarginPercent(salePrice, acquisitionPrice decimal.Decimal) decimal.Decimal {
	if !acquisitionPrice.IsPositive() {
		return decimal.Zero
	}
	return salePrice.Sub(acquisitionPrice).Div(acquisitionPrice).Mul(hundred)
}

// TopProfitableProducts devuelve los n productos con mayor margen estrictamente positivo,
// ordenados de mayor a menor. Productos sin reabastecimiento tienen margen cero y quedan fuera.
func TopProfitableProducts(products []entity.Product, supplies []entity.Supply, supplyItems []entity.SupplyItem, n int) []ProductMargin {
	if n <= 0 {
		n = DefaultTopN
	}
	prices := AcquisitionPrices(supplies, supplyItems)

	out := make([]ProductMargin, 0, len(products))
	for _, p := range products {
		acq := prices[p.ID]
		margin := MarginPercent(p.Price, acq)
		if !margin.IsPositive() {
			continue
		}
		out = append(out, ProductMargin{
			ProductID:        p.ID,
			Name:             p.Name,
			SalePrice:        p.Price,
			AcquisitionPrice: acq,
			MarginPercent:    margin,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.MarginPercent.Equal(b.MarginPercent) {
			return a.MarginPercent.GreaterThan(b.MarginPercent)
		}
		return a.Name < b.Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ── Stock bajo ────────────────────────────────────────────────────────────────

// LowStockProducts lista los productos con existencias <= mínimo, del más crítico al menos
// crítico según current/minimum. Un mínimo de cero define la razón como cero (máxima
// criticidad). En empate van primero los agotados y luego por nombre.
func LowStockProducts(products []entity.Product, departments []entity.Department) []LowStockProduct {
	deptName := make(map[string]string, len(departments))
	for _, d := range departments {
		deptName[d.ID] = d.Name
	}

	type ranked struct {
		LowStockProduct
		ratio decimal.Decimal
	}
	rows := make([]ranked, 0)
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		name, ok := deptName[p.DepartmentID]
		if !ok {
			name = UnknownDepartment
		}
		status := StatusRunningLow
		if p.CurrentQty.IsZero() {
			status = StatusOutOfStock
		}
		rows = append(rows, ranked{
			LowStockProduct: LowStockProduct{
				ProductID:  p.ID,
				Name:       p.Name,
				Department: name,
				Current:    p.CurrentQty,
				Minimum:    p.MinThreshold,
				Status:     status,
			},
			ratio: stockRatio(p.CurrentQty, p.MinThreshold),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.ratio.Equal(b.ratio) {
			return a.ratio.LessThan(b.ratio)
		}
		if a.Status != b.Status {
			return a.Status == StatusOutOfStock
		}
		return a.Name < b.Name
	})

	out := make([]LowStockProduct, len(rows))
	for i, r := range rows {
		out[i] = r.LowStockProduct
	}
	return out
}

func stockRatio(current, minimum decimal.Decimal) decimal.Decimal {
	if !minimum.IsPositive() {
		return decimal.Zero
	}
	return current.Div(minimum)
}

// ── Totales ───────────────────────────────────────────────────────────────────

// SummaryTotals cuenta ventas y productos, suma todas las líneas de venta del snapshot
// (sin ventana de fechas) y cuenta los productos con stock bajo.
func SummaryTotals(products []entity.Product, sales []entity.Sale, items []entity.SaleItem) Summary {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	low := 0
	for _, p := range products {
		if p.IsLowStock() {
			low++
		}
	}
	return Summary{
		SaleCount:     len(sales),
		TotalRevenue:  total,
		ProductCount:  len(products),
		LowStockCount: low,
	}
}

// StockUnits suma las existencias de todos los productos.
func StockUnits(products []entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.CurrentQty)
	}
	return total
}

// CountSupplies cuenta los reabastecimientos en el estado dado.
func CountSupplies(supplies []entity.Supply, status entity.SupplyStatus) int {
	n := 0
	for _, s := range supplies {
		if s.Status == status {
			n++
		}
	}
	return n
}

// ── Ventanas de tiempo ────────────────────────────────────────────────────────

// FilterSalesByPeriod devuelve las ventas creadas en [from, to] y sus líneas. Un extremo en
// cero no limita. Las líneas huérfanas quedan fuera porque no tienen fecha.
func FilterSalesByPeriod(sales []entity.Sale, items []entity.SaleItem, from, to time.Time) ([]entity.Sale, []entity.SaleItem) {
	keep := make(map[string]struct{}, len(sales))
	outSales := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		if !from.IsZero() && s.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && s.CreatedAt.After(to) {
			continue
		}
		keep[s.ID] = struct{}{}
		outSales = append(outSales, s)
	}
	outItems := make([]entity.SaleItem, 0, len(items))
	for _, it := range items {
		if _, ok := keep[it.SaleID]; ok {
			outItems = append(outItems, it)
		}
	}
	return outSales, outItems
}
