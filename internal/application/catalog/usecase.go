package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

// UseCase catálogo de artículos terminados: CRUD, modo de seguimiento y lista de
// materiales. Mantiene la exclusividad entre stock directo y BOM: un artículo con
// seguimiento directo no puede tener aristas, y al revés.
type UseCase struct {
	txRunner     TxRunner
	itemRepo     repository.CatalogItemRepository
	bomRepo      repository.BOMRepository
	resourceRepo repository.ResourceRepository
	stockRepo    repository.StockRecordRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso. Los repositorios van atados al pool (lecturas);
// las escrituras pasan por txRunner.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.CatalogItemRepository,
	bomRepo repository.BOMRepository,
	resourceRepo repository.ResourceRepository,
	stockRepo repository.StockRecordRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		bomRepo:      bomRepo,
		resourceRepo: resourceRepo,
		stockRepo:    stockRepo,
		log:          log,
	}
}

// CreateItem da de alta el artículo con su registro de stock en una transacción.
// El registro existe siempre; TrackStock decide si arranca con seguimiento activo.
func (uc *UseCase) CreateItem(ctx context.Context, userID string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemDTO, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockQuantity.IsNegative() || in.LowStockThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	item := &entity.CatalogItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		DefaultUnit: in.DefaultUnit,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec := &entity.StockRecord{
		ID:                uuid.New().String(),
		UserID:            userID,
		OwnerKind:         entity.OwnerCatalogItem,
		OwnerID:           item.ID,
		Quantity:          in.StockQuantity,
		LowStockThreshold: in.LowStockThreshold,
		TrackingEnabled:   in.TrackStock,
		UnitLabel:         in.DefaultUnit,
		Active:            true,
		UpdatedAt:         now,
	}

	err := uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, _ repository.BOMRepository, stockRepo repository.StockRecordRepository) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		return stockRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("catalog_item_id", item.ID).Bool("track_stock", in.TrackStock).Msg("artículo creado")
	return uc.toDTO(item, rec, nil), nil
}

// UpdateItem actualiza los datos del artículo y los ajustes de su registro
// (umbral, activo). La cantidad no se toca aquí: eso es un ajuste de stock.
func (uc *UseCase) UpdateItem(ctx context.Context, userID, id string, in dto.UpdateCatalogItemRequest) error {
	if in.Name == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, _ repository.BOMRepository, stockRepo repository.StockRecordRepository) error {
		item, err := itemRepo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		item.Name = in.Name
		item.Description = in.Description
		item.DefaultUnit = in.DefaultUnit
		if in.Active != nil {
			item.Active = *in.Active
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}

		rec, err := stockRepo.GetByOwner(ctx, entity.OwnerCatalogItem, item.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		rec.LowStockThreshold = in.LowStockThreshold
		rec.UnitLabel = in.DefaultUnit
		rec.Active = item.Active
		return stockRepo.UpdateSettings(ctx, rec)
	})
}

// DeleteItem elimina el artículo, sus aristas BOM y su registro de stock.
func (uc *UseCase) DeleteItem(ctx context.Context, userID, id string) error {
	err := uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, _ repository.BOMRepository, stockRepo repository.StockRecordRepository) error {
		if err := itemRepo.Delete(ctx, userID, id); err != nil {
			return err
		}
		return stockRepo.DeleteByOwner(ctx, entity.OwnerCatalogItem, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("catalog_item_id", id).Msg("artículo eliminado")
	return nil
}

// SetTracking activa o desactiva el seguimiento directo. Activar exige BOM vacío;
// la comprobación se hace con la fila de stock bloqueada para que un AddBOMEdge
// concurrente no pueda colarse entre la cuenta y la escritura.
func (uc *UseCase) SetTracking(ctx context.Context, userID, itemID string, enabled bool) error {
	return uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, bomRepo repository.BOMRepository, stockRepo repository.StockRecordRepository) error {
		item, err := itemRepo.GetByID(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		rec, err := stockRepo.GetByOwner(ctx, entity.OwnerCatalogItem, item.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec, err = stockRepo.GetForUpdate(ctx, rec.ID); err != nil {
			return err
		}

		if enabled {
			n, err := bomRepo.CountByItem(ctx, item.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrInvariantViolation
			}
		}
		rec.TrackingEnabled = enabled
		return stockRepo.UpdateSettings(ctx, rec)
	})
}

// AddBOMEdge añade una arista artículo -> materia prima. Rechazada si el artículo
// tiene seguimiento directo activo (exclusividad) o si la arista ya existe.
func (uc *UseCase) AddBOMEdge(ctx context.Context, userID, itemID string, in dto.AddBOMEdgeRequest) (*dto.BOMEdgeDTO, error) {
	if in.ResourceID == "" || in.QuantityNeeded.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.resourceRepo.GetByID(ctx, userID, in.ResourceID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}

	edge := &entity.CatalogItemResource{
		ID:             uuid.New().String(),
		CatalogItemID:  itemID,
		ResourceID:     in.ResourceID,
		QuantityNeeded: in.QuantityNeeded,
		CreatedAt:      time.Now(),
	}
	err = uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, bomRepo repository.BOMRepository, stockRepo repository.StockRecordRepository) error {
		item, err := itemRepo.GetByID(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		rec, err := stockRepo.GetByOwner(ctx, entity.OwnerCatalogItem, item.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		// misma fila que bloquea SetTracking: serializa ambas mutaciones
		if rec, err = stockRepo.GetForUpdate(ctx, rec.ID); err != nil {
			return err
		}
		if rec.TrackingEnabled {
			return domain.ErrInvariantViolation
		}
		return bomRepo.Create(ctx, edge)
	})
	if err != nil {
		return nil, err
	}
	return &dto.BOMEdgeDTO{
		ID:             edge.ID,
		ResourceID:     edge.ResourceID,
		ResourceName:   res.Name,
		QuantityNeeded: edge.QuantityNeeded,
	}, nil
}

// UpdateBOMEdge cambia la cantidad necesaria de una arista existente. Solo afecta
// a ventas futuras: las anulaciones rejuegan los movimientos almacenados.
func (uc *UseCase) UpdateBOMEdge(ctx context.Context, userID, edgeID string, in dto.UpdateBOMEdgeRequest) error {
	if in.QuantityNeeded.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, bomRepo repository.BOMRepository, _ repository.StockRecordRepository) error {
		edge, err := bomRepo.Get(ctx, edgeID)
		if err != nil {
			return err
		}
		if edge == nil {
			return domain.ErrNotFound
		}
		item, err := itemRepo.GetByID(ctx, userID, edge.CatalogItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return bomRepo.UpdateQuantity(ctx, edgeID, in.QuantityNeeded)
	})
}

// RemoveBOMEdge elimina una arista de la lista de materiales.
func (uc *UseCase) RemoveBOMEdge(ctx context.Context, userID, edgeID string) error {
	return uc.txRunner.RunCatalog(ctx, func(itemRepo repository.CatalogItemRepository, bomRepo repository.BOMRepository, _ repository.StockRecordRepository) error {
		edge, err := bomRepo.Get(ctx, edgeID)
		if err != nil {
			return err
		}
		if edge == nil {
			return domain.ErrNotFound
		}
		item, err := itemRepo.GetByID(ctx, userID, edge.CatalogItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return bomRepo.Delete(ctx, edgeID)
	})
}

// GetItem devuelve el artículo con su stock y sus aristas BOM.
func (uc *UseCase) GetItem(ctx context.Context, userID, id string) (*dto.CatalogItemDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	rec, err := uc.stockRepo.GetByOwner(ctx, entity.OwnerCatalogItem, item.ID)
	if err != nil {
		return nil, err
	}
	edges, err := uc.bomRepo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	var bom []dto.BOMEdgeDTO
	for _, e := range edges {
		name := ""
		if res, err := uc.resourceRepo.GetByID(ctx, userID, e.ResourceID); err == nil && res != nil {
			name = res.Name
		}
		bom = append(bom, dto.BOMEdgeDTO{
			ID:             e.ID,
			ResourceID:     e.ResourceID,
			ResourceName:   name,
			QuantityNeeded: e.QuantityNeeded,
		})
	}
	return uc.toDTO(item, rec, bom), nil
}

// ListItems devuelve los artículos del usuario con su stock.
func (uc *UseCase) ListItems(ctx context.Context, userID string, page dto.PageRequest) ([]dto.CatalogItemDTO, error) {
	items, err := uc.itemRepo.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemDTO, 0, len(items))
	for _, item := range items {
		rec, err := uc.stockRepo.GetByOwner(ctx, entity.OwnerCatalogItem, item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *uc.toDTO(item, rec, nil))
	}
	return out, nil
}

func (uc *UseCase) toDTO(item *entity.CatalogItem, rec *entity.StockRecord, bom []dto.BOMEdgeDTO) *dto.CatalogItemDTO {
	d := &dto.CatalogItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		DefaultUnit: item.DefaultUnit,
		Active:      item.Active,
		Resources:   bom,
	}
	if rec != nil {
		d.TrackStock = rec.TrackingEnabled
		d.StockQuantity = rec.Quantity
		d.LowStockThreshold = rec.LowStockThreshold
	}
	return d
}
