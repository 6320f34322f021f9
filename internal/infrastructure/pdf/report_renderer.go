// Package pdf implementa la exportación del reporte analítico a PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + período         │  fecha de generación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ventas | ingresos | productos | stock bajo         │
//	│  TABLA: ingresos por día                                     │
//	│  TABLA: ingresos por departamento (con participación %)      │
//	│  TABLA: productos más rentables                              │
//	│  TABLA: stock bajo                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/reportfmt"
)

var _ ports.ReportRenderer = (*ReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa ports.ReportRenderer usando Maroto v2.
type ReportRenderer struct {
	storeName string
	fmt       *reportfmt.Formatter
	now       func() time.Time
}

// NewReportRenderer construye el renderer. storeName aparece en la cabecera.
func NewReportRenderer(storeName string, f *reportfmt.Formatter) *ReportRenderer {
	return &ReportRenderer{storeName: storeName, fmt: f, now: time.Now}
}

// ContentType implementa ports.ReportRenderer.
func (r *ReportRenderer) ContentType() string { return "application/pdf" }

// Extension implementa ports.ReportRenderer.
func (r *ReportRenderer) Extension() string { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (r *ReportRenderer) Render(report *dto.AnalyticsReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte analítico", true).
		WithAuthor(r.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(report.Period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(r.summaryRow(report.Summary))

	daily := make([][]string, 0, len(report.RevenueByDay))
	for _, d := range report.RevenueByDay {
		daily = append(daily, []string{d.Label, r.fmt.Money(d.Total)})
	}
	m.AddRows(section("Ingresos por día", []column{{"Fecha", 6, align.Left}, {"Ingresos", 6, align.Right}}, daily)...)

	depts := make([][]string, 0, len(report.ByDepartment))
	for _, d := range report.ByDepartment {
		depts = append(depts, []string{d.Department, r.fmt.Money(d.Total), r.fmt.Percent(d.SharePct)})
	}
	m.AddRows(section("Ingresos por departamento",
		[]column{{"Departamento", 6, align.Left}, {"Ingresos", 3, align.Right}, {"Participación", 3, align.Right}},
		depts)...)

	margins := make([][]string, 0, len(report.TopProducts))
	for _, p := range report.TopProducts {
		margins = append(margins, []string{
			fmt.Sprintf("%d", p.Rank), p.Name, r.fmt.Money(p.SalePrice), r.fmt.Money(p.AcquisitionPrice), r.fmt.Percent(p.MarginPct),
		})
	}
	m.AddRows(section("Productos más rentables", []column{
		{"#", 1, align.Center}, {"Producto", 5, align.Left}, {"P. venta", 2, align.Right},
		{"P. compra", 2, align.Right}, {"Margen", 2, align.Right},
	}, margins)...)

	low := make([][]string, 0, len(report.LowStock))
	for _, l := range report.LowStock {
		low = append(low, []string{l.Name, l.Department, r.fmt.Quantity(l.Current), r.fmt.Quantity(l.Minimum), l.Status})
	}
	m.AddRows(section("Stock bajo", []column{
		{"Producto", 4, align.Left}, {"Departamento", 3, align.Left}, {"Existencias", 2, align.Right},
		{"Mínimo", 1, align.Right}, {"Estado", 2, align.Center},
	}, low)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda + período (izq) y fecha de generación (der).
func (r *ReportRenderer) headerRow(p dto.PeriodDTO) core.Row {
	period := "Todo el historial"
	if p.StartDate != "" || p.EndDate != "" {
		period = fmt.Sprintf("Período: %s – %s", nonEmpty(p.StartDate, "…"), nonEmpty(p.EndDate, "…"))
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(r.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("REPORTE ANALÍTICO · "+period, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.now().Format("02.01.2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// summaryRow: las cuatro cifras del resumen en tarjetas.
func (r *ReportRenderer) summaryRow(s dto.SummaryDTO) core.Row {
	card := func(label, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 2}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: c, Align: align.Center, Top: 7}),
		)
	}
	lowColor := colorPrimary
	if s.LowStockCount > 0 {
		lowColor = colorDanger
	}
	return row.New(16).Add(
		card("VENTAS", fmt.Sprintf("%d", s.SaleCount), colorPrimary),
		card("INGRESOS", r.fmt.Money(s.TotalRevenue), colorPrimary),
		card("PRODUCTOS", fmt.Sprintf("%d", s.ProductCount), colorPrimary),
		card("STOCK BAJO", fmt.Sprintf("%d", s.LowStockCount), lowColor),
	)
}

type column struct {
	label string
	size  int
	align align.Type
}

// section: título, cabecera con fondo y una fila por registro. Sin registros muestra "Sin datos".
func section(title string, cols []column, rows [][]string) []core.Row {
	out := []core.Row{
		row.New(4),
		row.New(7).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1,
		}))),
	}

	head := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		head = append(head, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	out = append(out, row.New(7).Add(head...).WithStyle(&props.Cell{BackgroundColor: colorPrimary}))

	if len(rows) == 0 {
		out = append(out, row.New(6).Add(col.New(12).Add(text.New("Sin datos", props.Text{
			Size: 8, Color: colorGray, Align: align.Center, Top: 1,
		}))))
		return out
	}
	for _, values := range rows {
		cells := make([]core.Col, 0, len(cols))
		for i, c := range cols {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			cells = append(cells, col.New(c.size).Add(text.New(v, props.Text{
				Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		out = append(out, row.New(6).Add(cells...))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
