package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// AnalyticsHandler maneja los reportes de ventas, rentabilidad y stock.
type AnalyticsHandler struct {
	uc     *appanalytics.AnalyticsUseCase
	export *appanalytics.ReportExportUseCase
}

// NewAnalyticsHandler construye el handler. export puede ser nil (sin exportaciones).
func NewAnalyticsHandler(uc *appanalytics.AnalyticsUseCase, export *appanalytics.ReportExportUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, export: export}
}

// GetReport godoc
// @Summary      Reporte analítico completo
// @Description  Ingresos por día y por departamento, ranking de productos por margen
// @Description  y productos con stock bajo. Sin fechas se usa todo el historial.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período, incluido (YYYY-MM-DD)"
// @Param        top_n       query  int     false  "Productos en el ranking (default 10, max 100)"
// @Success      200  {object}  dto.AnalyticsReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/report [get]
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	var req dto.AnalyticsReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	report, err := h.uc.Report(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetLowStock godoc
// @Summary      Productos con stock bajo
// @Description  Ordenados del más crítico (menor cantidad/mínimo) al menos crítico.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockDTO
// @Router       /api/analytics/low-stock [get]
func (h *AnalyticsHandler) GetLowStock(c *fiber.Ctx) error {
	return c.JSON(h.uc.LowStock())
}

// GetSummary godoc
// @Summary      Totales generales
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryDTO
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Summary())
}

// ExportXLSX godoc
// @Summary      Exportar reporte a Excel
// @Tags         analytics
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Param        top_n       query  int     false  "Productos en el ranking"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/export.xlsx [get]
func (h *AnalyticsHandler) ExportXLSX(c *fiber.Ctx) error {
	return h.exportAs(c, "xlsx")
}

// ExportPDF godoc
// @Summary      Exportar reporte a PDF
// @Tags         analytics
// @Security     Bearer
// @Produce      application/pdf
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Param        top_n       query  int     false  "Productos en el ranking"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/export.pdf [get]
func (h *AnalyticsHandler) ExportPDF(c *fiber.Ctx) error {
	return h.exportAs(c, "pdf")
}

func (h *AnalyticsHandler) exportAs(c *fiber.Ctx, format string) error {
	if h.export == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "exportaciones no habilitadas"})
	}
	var req dto.AnalyticsReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	file, err := h.export.Export(c.UserContext(), format, req)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.Send(file.Data)
}
