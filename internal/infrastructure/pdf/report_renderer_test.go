package pdf_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/reportfmt"
)

func TestReportRenderer_GeneraPDF(t *testing.T) {
	r := pdf.NewReportRenderer("Almacén Central", reportfmt.New("es"))
	d := decimal.RequireFromString

	data, err := r.Render(&dto.AnalyticsReportDTO{
		Period:  dto.PeriodDTO{StartDate: "2025-05-01"},
		Summary: dto.SummaryDTO{SaleCount: 2, TotalRevenue: d("420.15"), ProductCount: 3, LowStockCount: 2},
		RevenueByDay: []dto.DailyRevenueDTO{
			{Date: "2025-05-29", Label: "29.05.2025", Total: d("194.85")},
		},
		TopProducts: []dto.ProductMarginDTO{{Rank: 1, Name: "Leche", SalePrice: d("89.90"), AcquisitionPrice: d("65.50"), MarginPct: d("37.25")}},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestReportRenderer_ReporteVacio(t *testing.T) {
	r := pdf.NewReportRenderer("Almacén", reportfmt.New("en"))

	data, err := r.Render(&dto.AnalyticsReportDTO{})

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
