package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/labstock-api/internal/application/catalog"
	"github.com/tu-usuario/labstock-api/internal/application/dto"
)

// CatalogHandler maneja las peticiones HTTP del catálogo (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo del catálogo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCatalogItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.CatalogItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/catalog/items [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateItem(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.CatalogItemDTO
// @Router       /api/catalog/items [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.ListItems(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo con su stock y BOM
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.CatalogItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/items/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateCatalogItemRequest  true  "Datos a actualizar"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/items/{id} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateItem(c.UserContext(), GetUserID(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar artículo (cascada sobre BOM y stock)
// @Tags         catalog
// @Security     Bearer
// @Param        id  path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/items/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetTracking godoc
// @Summary      Activar/desactivar seguimiento directo de stock
// @Description  Activar exige lista de materiales vacía (son mutuamente excluyentes).
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.SetTrackingRequest  true  "Nuevo estado"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/catalog/items/{id}/tracking [put]
func (h *CatalogHandler) SetTracking(c *fiber.Ctx) error {
	var in dto.SetTrackingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetTracking(c.UserContext(), GetUserID(c), c.Params("id"), in.Enabled); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddBOMEdge godoc
// @Summary      Añadir materia prima a la lista de materiales
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.AddBOMEdgeRequest  true  "Arista BOM"
// @Success      201   {object}  dto.BOMEdgeDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/items/{id}/resources [post]
func (h *CatalogHandler) AddBOMEdge(c *fiber.Ctx) error {
	var in dto.AddBOMEdgeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddBOMEdge(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBOMEdge godoc
// @Summary      Cambiar la cantidad necesaria de una arista BOM
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Param        edgeId  path  string  true  "ID de la arista"
// @Param        body    body  dto.UpdateBOMEdgeRequest  true  "Nueva cantidad"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/resource-links/{edgeId} [put]
func (h *CatalogHandler) UpdateBOMEdge(c *fiber.Ctx) error {
	var in dto.UpdateBOMEdgeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateBOMEdge(c.UserContext(), GetUserID(c), c.Params("edgeId"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveBOMEdge godoc
// @Summary      Quitar una materia prima de la lista de materiales
// @Tags         catalog
// @Security     Bearer
// @Param        edgeId  path  string  true  "ID de la arista"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/resource-links/{edgeId} [delete]
func (h *CatalogHandler) RemoveBOMEdge(c *fiber.Ctx) error {
	if err := h.uc.RemoveBOMEdge(c.UserContext(), GetUserID(c), c.Params("edgeId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
