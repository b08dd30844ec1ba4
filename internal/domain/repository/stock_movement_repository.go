package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// StockMovementRepository rastro de movimientos; snapshot inmutable de lo consumido
// por cada bon de livraison.
type StockMovementRepository interface {
	Create(ctx context.Context, mov *entity.StockMovement) error
	// ListOutstandingByNote devuelve los movimientos 'out' aún no restaurados del bon,
	// bloqueando las filas (FOR UPDATE) para que dos anulaciones no los rejueguen a la vez.
	ListOutstandingByNote(ctx context.Context, deliveryNoteID string) ([]*entity.StockMovement, error)
	MarkRestored(ctx context.Context, ids []string, at time.Time) error
	ListByRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.StockMovement, error)
}
