package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/application/resources"
)

// ResourceHandler maneja las peticiones HTTP de materias primas (protegido).
type ResourceHandler struct {
	uc *resources.UseCase
}

// NewResourceHandler construye el handler.
func NewResourceHandler(uc *resources.UseCase) *ResourceHandler {
	return &ResourceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear materia prima
// @Tags         resources
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateResourceRequest  true  "Datos de la materia prima"
// @Success      201   {object}  dto.ResourceDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/resources [post]
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateResourceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateResource(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar materias primas
// @Tags         resources
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ResourceDTO
// @Router       /api/resources [get]
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.ListResources(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener materia prima con variantes y stock
// @Tags         resources
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la materia prima"
// @Success      200  {object}  dto.ResourceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resources/{id} [get]
func (h *ResourceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetResource(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar materia prima
// @Tags         resources
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la materia prima"
// @Param        body  body  dto.UpdateResourceRequest  true  "Datos a actualizar"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resources/{id} [put]
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateResourceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateResource(c.UserContext(), GetUserID(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar materia prima (cascada sobre variantes y stock)
// @Tags         resources
// @Security     Bearer
// @Param        id  path  string  true  "ID de la materia prima"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resources/{id} [delete]
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteResource(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateVariant godoc
// @Summary      Crear variante de materia prima
// @Tags         resources
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la materia prima"
// @Param        body  body  dto.CreateVariantRequest  true  "Datos de la variante"
// @Success      201   {object}  dto.ResourceVariantDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/resources/{id}/variants [post]
func (h *ResourceHandler) CreateVariant(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateVariant(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateVariant godoc
// @Summary      Actualizar variante
// @Tags         resources
// @Security     Bearer
// @Accept       json
// @Param        id         path  string  true  "ID de la materia prima"
// @Param        variantId  path  string  true  "ID de la variante"
// @Param        body       body  dto.CreateVariantRequest  true  "Datos a actualizar"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resources/{id}/variants/{variantId} [put]
func (h *ResourceHandler) UpdateVariant(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateVariant(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("variantId"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteVariant godoc
// @Summary      Eliminar variante y su stock
// @Tags         resources
// @Security     Bearer
// @Param        id         path  string  true  "ID de la materia prima"
// @Param        variantId  path  string  true  "ID de la variante"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resources/{id}/variants/{variantId} [delete]
func (h *ResourceHandler) DeleteVariant(c *fiber.Ctx) error {
	if err := h.uc.DeleteVariant(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("variantId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
