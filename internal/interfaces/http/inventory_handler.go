package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/application/inventory"
)

// InventoryHandler maneja ajustes manuales, historial y alertas de stock bajo (protegido).
type InventoryHandler struct {
	adjustUC   *inventory.AdjustStockUseCase
	lowStockUC *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjustUC *inventory.AdjustStockUseCase, lowStockUC *inventory.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{adjustUC: adjustUC, lowStockUC: lowStockUC}
}

// Adjust godoc
// @Summary      Ajuste manual de stock de un artículo
// @Description  Cantidad con signo: positivo suma, negativo resta (nunca bajo cero).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	out, err := h.adjustUC.Adjust(c.UserContext(), userID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un registro de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        recordId  path   string  true   "ID del registro de stock"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {array}  dto.StockMovementDTO
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{recordId}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	movs, err := h.adjustUC.History(c.UserContext(), GetUserID(c), c.Params("recordId"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockMovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.StockMovementDTO{
			ID:             m.ID,
			StockRecordID:  m.StockRecordID,
			DeliveryNoteID: m.DeliveryNoteID,
			Type:           m.Type,
			Quantity:       m.Quantity,
			Notes:          m.Notes,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Alertas de stock bajo (artículos, materias primas y variantes)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlertDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.lowStockUC.Scan(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStockCount godoc
// @Summary      Número de registros en alerta (badge del dashboard)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/inventory/low-stock/count [get]
func (h *InventoryHandler) LowStockCount(c *fiber.Ctx) error {
	n, err := h.lowStockUC.Count(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}
