package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/labstock-api/internal/application/batch"
	"github.com/tu-usuario/labstock-api/internal/application/dto"
)

// BatchHandler maneja marcas, materiales y números de lote (protegido).
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// CreateBrand godoc
// @Summary      Crear marca de lote
// @Tags         batch
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BrandRequest  true  "Datos de la marca"
// @Success      201   {object}  entity.BatchBrand
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batch/brands [post]
func (h *BatchHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.BrandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateBrand(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBrands godoc
// @Summary      Listar marcas de lote
// @Tags         batch
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.BatchBrand
// @Router       /api/batch/brands [get]
func (h *BatchHandler) ListBrands(c *fiber.Ctx) error {
	out, err := h.uc.ListBrands(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteBrand godoc
// @Summary      Eliminar marca y sus materiales
// @Tags         batch
// @Security     Bearer
// @Param        id  path  string  true  "ID de la marca"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batch/brands/{id} [delete]
func (h *BatchHandler) DeleteBrand(c *fiber.Ctx) error {
	if err := h.uc.DeleteBrand(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateMaterial godoc
// @Summary      Crear material con trazabilidad de lote
// @Tags         batch
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MaterialRequest  true  "Datos del material"
// @Success      201   {object}  entity.BatchMaterial
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batch/materials [post]
func (h *BatchHandler) CreateMaterial(c *fiber.Ctx) error {
	var in dto.MaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateMaterial(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMaterials godoc
// @Summary      Listar materiales (favoritos primero)
// @Tags         batch
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.BatchMaterial
// @Router       /api/batch/materials [get]
func (h *BatchHandler) ListMaterials(c *fiber.Ctx) error {
	out, err := h.uc.ListMaterials(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetFavorite godoc
// @Summary      Marcar/desmarcar material como favorito
// @Tags         batch
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del material"
// @Param        body  body  dto.SetFavoriteRequest  true  "Nuevo estado"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batch/materials/{id}/favorite [put]
func (h *BatchHandler) SetFavorite(c *fiber.Ctx) error {
	var in dto.SetFavoriteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetFavorite(c.UserContext(), GetUserID(c), c.Params("id"), in.Favorite); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMaterial godoc
// @Summary      Eliminar material y su historial de lotes
// @Tags         batch
// @Security     Bearer
// @Param        id  path  string  true  "ID del material"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batch/materials/{id} [delete]
func (h *BatchHandler) DeleteMaterial(c *fiber.Ctx) error {
	if err := h.uc.DeleteMaterial(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordBatch godoc
// @Summary      Registrar el nuevo número de lote vigente de un material
// @Description  Cierra el lote vigente anterior e inserta el nuevo en la misma transacción.
// @Tags         batch
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del material"
// @Param        body  body  dto.RecordBatchRequest  true  "Número de lote"
// @Success      201   {object}  dto.BatchNumberDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batch/materials/{id}/numbers [post]
func (h *BatchHandler) RecordBatch(c *fiber.Ctx) error {
	var in dto.RecordBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordNewBatch(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CurrentBatch godoc
// @Summary      Lote vigente de un material
// @Tags         batch
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.BatchNumberDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batch/materials/{id}/numbers/current [get]
func (h *BatchHandler) CurrentBatch(c *fiber.Ctx) error {
	out, err := h.uc.CurrentBatch(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BatchHistory godoc
// @Summary      Historial de lotes de un material (más recientes primero)
// @Tags         batch
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {array}  dto.BatchNumberDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batch/materials/{id}/numbers [get]
func (h *BatchHandler) BatchHistory(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LinkResource godoc
// @Summary      Vincular materia prima con material de lote
// @Tags         batch
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResourceBatchLinkRequest  true  "Vínculo"
// @Success      201   {object}  entity.ResourceBatchLink
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batch/links [post]
func (h *BatchHandler) LinkResource(c *fiber.Ctx) error {
	var in dto.ResourceBatchLinkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.LinkResource(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLinks godoc
// @Summary      Vínculos de lote de una materia prima
// @Tags         batch
// @Security     Bearer
// @Produce      json
// @Param        resourceId  path  string  true  "ID de la materia prima"
// @Success      200  {array}  entity.ResourceBatchLink
// @Router       /api/batch/links/resource/{resourceId} [get]
func (h *BatchHandler) ListLinks(c *fiber.Ctx) error {
	out, err := h.uc.ListLinks(c.UserContext(), GetUserID(c), c.Params("resourceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UnlinkResource godoc
// @Summary      Eliminar un vínculo de lote
// @Tags         batch
// @Security     Bearer
// @Param        id  path  string  true  "ID del vínculo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batch/links/{id} [delete]
func (h *BatchHandler) UnlinkResource(c *fiber.Ctx) error {
	if err := h.uc.UnlinkResource(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
