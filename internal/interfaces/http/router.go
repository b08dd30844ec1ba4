package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/labstock-api/internal/application/batch"
	"github.com/tu-usuario/labstock-api/internal/application/catalog"
	"github.com/tu-usuario/labstock-api/internal/application/fulfillment"
	"github.com/tu-usuario/labstock-api/internal/application/inventory"
	"github.com/tu-usuario/labstock-api/internal/application/resources"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC     *catalog.UseCase
	ResourceUC    *resources.UseCase
	FulfillmentUC *fulfillment.UseCase
	AdjustUC      *inventory.AdjustStockUseCase
	LowStockUC    *inventory.LowStockUseCase
	BatchUC       *batch.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	catalogGroup := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogGroup.Post("/items", catalogHandler.Create)
	catalogGroup.Get("/items", catalogHandler.List)
	catalogGroup.Get("/items/:id", catalogHandler.GetByID)
	catalogGroup.Put("/items/:id", catalogHandler.Update)
	catalogGroup.Delete("/items/:id", catalogHandler.Delete)
	catalogGroup.Put("/items/:id/tracking", catalogHandler.SetTracking)
	catalogGroup.Post("/items/:id/resources", catalogHandler.AddBOMEdge)
	catalogGroup.Put("/resource-links/:edgeId", catalogHandler.UpdateBOMEdge)
	catalogGroup.Delete("/resource-links/:edgeId", catalogHandler.RemoveBOMEdge)

	// Materias primas y variantes (protegido)
	resourceGroup := protected.Group("/resources")
	resourceHandler := NewResourceHandler(deps.ResourceUC)
	resourceGroup.Post("/", resourceHandler.Create)
	resourceGroup.Get("/", resourceHandler.List)
	resourceGroup.Get("/:id", resourceHandler.GetByID)
	resourceGroup.Put("/:id", resourceHandler.Update)
	resourceGroup.Delete("/:id", resourceHandler.Delete)
	resourceGroup.Post("/:id/variants", resourceHandler.CreateVariant)
	resourceGroup.Put("/:id/variants/:variantId", resourceHandler.UpdateVariant)
	resourceGroup.Delete("/:id/variants/:variantId", resourceHandler.DeleteVariant)

	// Bons de livraison (protegido)
	notesGroup := protected.Group("/delivery-notes")
	noteHandler := NewDeliveryNoteHandler(deps.FulfillmentUC)
	notesGroup.Post("/", noteHandler.Create)
	notesGroup.Get("/", noteHandler.List)
	notesGroup.Get("/:id", noteHandler.GetByID)
	notesGroup.Put("/:id/status", noteHandler.AdvanceStatus)
	notesGroup.Delete("/:id", noteHandler.Cancel)

	// Inventario: ajustes, historial y alertas (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.LowStockUC)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Get("/records/:recordId/movements", inventoryHandler.Movements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/low-stock/count", inventoryHandler.LowStockCount)

	// Trazabilidad de lotes (protegido; altas y bajas solo admin)
	batchGroup := protected.Group("/batch")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batchGroup.Post("/brands", RequireRole("admin"), batchHandler.CreateBrand)
	batchGroup.Get("/brands", batchHandler.ListBrands)
	batchGroup.Delete("/brands/:id", RequireRole("admin"), batchHandler.DeleteBrand)
	batchGroup.Post("/materials", RequireRole("admin"), batchHandler.CreateMaterial)
	batchGroup.Get("/materials", batchHandler.ListMaterials)
	batchGroup.Put("/materials/:id/favorite", batchHandler.SetFavorite)
	batchGroup.Delete("/materials/:id", RequireRole("admin"), batchHandler.DeleteMaterial)
	batchGroup.Post("/materials/:id/numbers", batchHandler.RecordBatch)
	batchGroup.Get("/materials/:id/numbers", batchHandler.BatchHistory)
	batchGroup.Get("/materials/:id/numbers/current", batchHandler.CurrentBatch)
	batchGroup.Post("/links", batchHandler.LinkResource)
	batchGroup.Get("/links/resource/:resourceId", batchHandler.ListLinks)
	batchGroup.Delete("/links/:id", batchHandler.UnlinkResource)
}
