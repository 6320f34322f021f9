package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// SupplyHandler maneja /api/supplies (órdenes de reabastecimiento).
type SupplyHandler struct {
	uc *usecase.SupplyUseCase
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *usecase.SupplyUseCase) *SupplyHandler {
	return &SupplyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear reabastecimiento (pendiente)
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSupplyRequest  true  "Proveedor, fecha y líneas"
// @Success      201   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *SupplyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener reabastecimiento
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del reabastecimiento"
// @Success      200  {object}  dto.SupplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [get]
func (h *SupplyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar reabastecimientos
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | received | completed | cancelled"
// @Success      200  {array}   dto.SupplyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/supplies [get]
func (h *SupplyHandler) List(c *fiber.Ctx) error {
	var f dto.SupplyFilter
	if err := c.QueryParser(&f); err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.List(f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del reabastecimiento
// @Description  pending → received | completed | cancelled, received → completed.
// @Description  Al recibir se suma al stock una sola vez.
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                         true  "ID del reabastecimiento"
// @Param        body  body      dto.UpdateSupplyStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supplies/{id}/status [patch]
func (h *SupplyHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateSupplyStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
