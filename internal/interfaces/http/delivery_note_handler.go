package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/application/fulfillment"
)

// DeliveryNoteHandler maneja las peticiones HTTP de bons de livraison (protegido).
type DeliveryNoteHandler struct {
	uc *fulfillment.UseCase
}

// NewDeliveryNoteHandler construye el handler.
func NewDeliveryNoteHandler(uc *fulfillment.UseCase) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear bon de livraison
// @Description  Deduce el stock de cada línea (directo o vía BOM) en la misma transacción.
// @Tags         delivery-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryNoteRequest  true  "Líneas del bon"
// @Success      201   {object}  dto.DeliveryNoteDTO
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/delivery-notes [post]
func (h *DeliveryNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	out, err := h.uc.Create(c.UserContext(), userID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar bons de livraison (más recientes primero)
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.DeliveryNoteDTO
// @Router       /api/delivery-notes [get]
func (h *DeliveryNoteHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.List(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener bon de livraison con sus líneas
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del bon"
// @Success      200  {object}  dto.DeliveryNoteDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id} [get]
func (h *DeliveryNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AdvanceStatus godoc
// @Summary      Avanzar el estado del bon un paso
// @Description  pending -> in_progress -> completed. El estado de partida viene en el body;
// @Description  si la fila ya no está en ese estado se responde 409.
// @Tags         delivery-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del bon"
// @Param        body  body  dto.AdvanceStatusRequest  true  "Estado de partida"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id}/status [put]
func (h *DeliveryNoteHandler) AdvanceStatus(c *fiber.Ctx) error {
	var in dto.AdvanceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	next, err := h.uc.AdvanceStatus(c.UserContext(), GetUserID(c), c.Params("id"), in.From)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": next})
}

// Cancel godoc
// @Summary      Anular bon de livraison y reponer su stock
// @Description  Rejuega invertidos los movimientos del bon. Un bon facturado no se anula.
// @Tags         delivery-notes
// @Security     Bearer
// @Param        id  path  string  true  "ID del bon"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id} [delete]
func (h *DeliveryNoteHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if err := h.uc.Cancel(c.UserContext(), userID, userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
