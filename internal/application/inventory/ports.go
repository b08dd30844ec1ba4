package inventory

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para los ajustes del motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
