package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las tarjetas del tablero: ventas de hoy y del mes, productos,
// unidades en stock, stock bajo y reabastecimientos pendientes.
// GET /api/dashboard/summary
//
// No requiere parámetros; las fechas se calculan en el servidor con la zona horaria configurada.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
