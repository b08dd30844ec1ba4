package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	dominv "github.com/tu-usuario/labstock-api/internal/domain/inventory"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// ConsumptionResolver traduce una línea de venta (artículo, cantidad) al conjunto de
// deltas concretos a aplicar: o bien el registro directo del artículo, o bien el
// fan-out por la lista de materiales. Resolve no muta nada; es puro dado el snapshot
// del BOM en el momento de la llamada.
type ConsumptionResolver struct {
	catalogRepo  repository.CatalogItemRepository
	bomRepo      repository.BOMRepository
	resourceRepo repository.ResourceRepository
	stockRepo    repository.StockRecordRepository
}

// NewConsumptionResolver construye el resolver.
func NewConsumptionResolver(
	catalogRepo repository.CatalogItemRepository,
	bomRepo repository.BOMRepository,
	resourceRepo repository.ResourceRepository,
	stockRepo repository.StockRecordRepository,
) *ConsumptionResolver {
	return &ConsumptionResolver{
		catalogRepo:  catalogRepo,
		bomRepo:      bomRepo,
		resourceRepo: resourceRepo,
		stockRepo:    stockRepo,
	}
}

// Resolve calcula los deltas de una venta de quantity unidades del artículo:
//  1. Artículo con seguimiento directo: un solo delta {registro del artículo, -quantity}.
//  2. Si no, por cada arista BOM: delta = -(quantity / quantityNeeded), en decimal sin
//     redondear. Materia prima con variantes exige selección explícita en variants
//     (resource_id -> variant_id); sin ella falla con ErrVariantRequired.
//  3. Sin seguimiento y sin aristas: conjunto vacío (artículo no seguido, siempre permitido).
func (r *ConsumptionResolver) Resolve(ctx context.Context, userID, catalogItemID string, quantity decimal.Decimal, variants map[string]string) ([]dominv.Delta, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := r.catalogRepo.GetByID(ctx, userID, catalogItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	itemRec, err := r.stockRepo.GetByOwner(ctx, entity.OwnerCatalogItem, item.ID)
	if err != nil {
		return nil, err
	}
	if itemRec != nil && itemRec.TrackingEnabled {
		return []dominv.Delta{{
			StockRecordID: itemRec.ID,
			OwnerKind:     entity.OwnerCatalogItem,
			Quantity:      quantity.Neg(),
		}}, nil
	}

	edges, err := r.bomRepo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	deltas := make([]dominv.Delta, 0, len(edges))
	for _, edge := range edges {
		res, err := r.resourceRepo.GetByID(ctx, userID, edge.ResourceID)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, domain.ErrNotFound
		}
		consumption, err := dominv.ResourceConsumption(quantity, edge.QuantityNeeded)
		if err != nil {
			return nil, err
		}

		ownerKind := entity.OwnerResource
		ownerID := res.ID
		if res.HasVariants {
			variantID := variants[res.ID]
			if variantID == "" {
				return nil, domain.ErrVariantRequired
			}
			variant, err := r.resourceRepo.GetVariant(ctx, variantID)
			if err != nil {
				return nil, err
			}
			if variant == nil || variant.ResourceID != res.ID {
				return nil, domain.ErrNotFound
			}
			ownerKind = entity.OwnerResourceVariant
			ownerID = variant.ID
		}

		rec, err := r.stockRepo.GetByOwner(ctx, ownerKind, ownerID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, domain.ErrNotFound
		}
		deltas = append(deltas, dominv.Delta{
			StockRecordID: rec.ID,
			OwnerKind:     ownerKind,
			Quantity:      consumption.Neg(),
		})
	}
	return deltas, nil
}
