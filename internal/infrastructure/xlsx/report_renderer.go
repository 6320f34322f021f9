// Package xlsx exporta el reporte analítico a una hoja de cálculo con excelize.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/reportfmt"
)

var _ ports.ReportRenderer = (*ReportRenderer)(nil)

// Nombres de hoja.
const (
	sheetSummary     = "Resumen"
	sheetDaily       = "Ventas por día"
	sheetDepartments = "Departamentos"
	sheetUnits       = "Unidades vendidas"
	sheetMargins     = "Rentabilidad"
	sheetLowStock    = "Stock bajo"
)

// ReportRenderer una hoja por bloque del reporte. Las cifras se guardan como números
// (formato #,##0.00) para que el archivo se pueda seguir calculando.
type ReportRenderer struct {
	fmt *reportfmt.Formatter
}

// NewReportRenderer construye el renderer.
func NewReportRenderer(f *reportfmt.Formatter) *ReportRenderer {
	return &ReportRenderer{fmt: f}
}

// ContentType implementa ports.ReportRenderer.
func (r *ReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implementa ports.ReportRenderer.
func (r *ReportRenderer) Extension() string { return "xlsx" }

// Render implementa ports.ReportRenderer.
func (r *ReportRenderer) Render(report *dto.AnalyticsReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo numérico: %w", err)
	}

	w := &sheetWriter{f: f, header: header, money: money}

	// La hoja por defecto se renombra a Resumen.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	w.table(sheetSummary, []string{"Indicador", "Valor"}, [][]any{
		{"Período", periodLabel(report.Period)},
		{"Ventas", report.Summary.SaleCount},
		{"Ingresos", report.Summary.TotalRevenue.InexactFloat64()},
		{"Ingresos (" + r.fmt.Locale() + ")", r.fmt.Money(report.Summary.TotalRevenue)},
		{"Productos", report.Summary.ProductCount},
		{"Productos con stock bajo", report.Summary.LowStockCount},
	}, 2)

	daily := make([][]any, 0, len(report.RevenueByDay))
	for _, d := range report.RevenueByDay {
		daily = append(daily, []any{d.Label, d.Total.InexactFloat64()})
	}
	w.table(sheetDaily, []string{"Fecha", "Ingresos"}, daily, 2)

	depts := make([][]any, 0, len(report.ByDepartment))
	for _, d := range report.ByDepartment {
		depts = append(depts, []any{d.Department, d.Total.InexactFloat64(), d.SharePct.InexactFloat64()})
	}
	w.table(sheetDepartments, []string{"Departamento", "Ingresos", "Participación %"}, depts, 2, 3)

	units := make([][]any, 0, len(report.ProductSales))
	for _, p := range report.ProductSales {
		units = append(units, []any{p.Name, p.Units.InexactFloat64(), p.Revenue.InexactFloat64()})
	}
	w.table(sheetUnits, []string{"Producto", "Unidades", "Ingresos"}, units, 3)

	margins := make([][]any, 0, len(report.TopProducts))
	for _, p := range report.TopProducts {
		margins = append(margins, []any{
			p.Rank, p.Name, p.SalePrice.InexactFloat64(), p.AcquisitionPrice.InexactFloat64(), p.MarginPct.InexactFloat64(),
		})
	}
	w.table(sheetMargins, []string{"#", "Producto", "Precio venta", "Precio compra", "Margen %"}, margins, 3, 4, 5)

	low := make([][]any, 0, len(report.LowStock))
	for _, l := range report.LowStock {
		low = append(low, []any{l.Name, l.Department, l.Current.InexactFloat64(), l.Minimum.InexactFloat64(), l.Status})
	}
	w.table(sheetLowStock, []string{"Producto", "Departamento", "Existencias", "Mínimo", "Estado"}, low)

	if w.err != nil {
		return nil, w.err
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter acumula el primer error para no cortar el flujo de escritura en cada celda.
type sheetWriter struct {
	f      *excelize.File
	header int
	money  int
	err    error
}

// table escribe cabecera y filas desde A1. moneyCols son columnas (1-based) con formato numérico.
func (w *sheetWriter) table(sheet string, headers []string, rows [][]any, moneyCols ...int) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			w.err = fmt.Errorf("xlsx: crear hoja %s: %w", sheet, err)
			return
		}
	}

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := w.f.SetSheetRow(sheet, "A1", &head); err != nil {
		w.err = fmt.Errorf("xlsx: cabecera %s: %w", sheet, err)
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = w.f.SetCellStyle(sheet, "A1", last, w.header)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			w.err = fmt.Errorf("xlsx: fila %d de %s: %w", i+2, sheet, err)
			return
		}
	}
	if len(rows) > 0 {
		for _, c := range moneyCols {
			from, _ := excelize.CoordinatesToCellName(c, 2)
			to, _ := excelize.CoordinatesToCellName(c, len(rows)+1)
			_ = w.f.SetCellStyle(sheet, from, to, w.money)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = w.f.SetColWidth(sheet, "A", lastCol, 18)
}

func periodLabel(p dto.PeriodDTO) string {
	switch {
	case p.StartDate == "" && p.EndDate == "":
		return "Todo el historial"
	case p.StartDate == "":
		return "hasta " + p.EndDate
	case p.EndDate == "":
		return "desde " + p.StartDate
	}
	return p.StartDate + " – " + p.EndDate
}
