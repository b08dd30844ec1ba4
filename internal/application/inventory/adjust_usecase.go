package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	dominv "github.com/tu-usuario/labstock-api/internal/domain/inventory"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// AdjustStockUseCase ajuste manual del operador sobre el stock directo de un artículo
// (recuento físico, merma, corrección). Pasa por el Ledger como cualquier otro delta.
type AdjustStockUseCase struct {
	txRunner    TxRunner
	catalogRepo repository.CatalogItemRepository
	stockRepo   repository.StockRecordRepository
	movRepo     repository.StockMovementRepository
}

// NewAdjustStockUseCase construye el caso de uso. stockRepo y movRepo van atados al pool
// (solo lecturas); las escrituras pasan por txRunner.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	catalogRepo repository.CatalogItemRepository,
	stockRepo repository.StockRecordRepository,
	movRepo repository.StockMovementRepository,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, catalogRepo: catalogRepo, stockRepo: stockRepo, movRepo: movRepo}
}

// Adjust aplica un ajuste con signo al registro del artículo. Un ajuste que dejaría la
// cantidad negativa se rechaza (no se recorta). Sobre un registro sin seguimiento el
// ajuste es un no-op: Applied=false y la cantidad no cambia.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, userID, createdBy string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.CatalogItemID == "" || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.catalogRepo.GetByID(ctx, userID, in.CatalogItemID)
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
	if rec == nil {
		return nil, domain.ErrNotFound
	}

	var out dto.AdjustStockResponse
	err = uc.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, movRepo repository.StockMovementRepository) error {
		newQty, applied, err := Apply(ctx, stockRepo, dominv.Delta{
			StockRecordID: rec.ID,
			OwnerKind:     entity.OwnerCatalogItem,
			Quantity:      in.Quantity,
		}, false)
		if err != nil {
			return err
		}
		out = dto.AdjustStockResponse{StockRecordID: rec.ID, NewQuantity: newQty, Applied: applied}
		if !applied {
			return nil
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			UserID:        userID,
			StockRecordID: rec.ID,
			Type:          entity.MovementAdjust,
			Quantity:      in.Quantity,
			Notes:         in.Notes,
			CreatedAt:     time.Now(),
			CreatedBy:     createdBy,
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History devuelve los movimientos de un registro de stock (más reciente primero).
func (uc *AdjustStockUseCase) History(ctx context.Context, userID, stockRecordID string, limit, offset int) ([]*entity.StockMovement, error) {
	rec, err := uc.stockRepo.Get(ctx, userID, stockRecordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListByRecord(ctx, stockRecordID, limit, offset)
}
