package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// CatalogItemRepository CRUD de artículos del catálogo.
type CatalogItemRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, userID, id string) (*entity.CatalogItem, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	// Delete elimina el artículo; sus aristas BOM y su StockRecord caen en cascada.
	Delete(ctx context.Context, userID, id string) error
}

// BOMRepository aristas de la lista de materiales (catalog_item_resources).
type BOMRepository interface {
	Create(ctx context.Context, edge *entity.CatalogItemResource) error
	ListByItem(ctx context.Context, catalogItemID string) ([]*entity.CatalogItemResource, error)
	CountByItem(ctx context.Context, catalogItemID string) (int, error)
	UpdateQuantity(ctx context.Context, edgeID string, quantityNeeded decimal.Decimal) error
	Delete(ctx context.Context, edgeID string) error
	Get(ctx context.Context, edgeID string) (*entity.CatalogItemResource, error)
}
