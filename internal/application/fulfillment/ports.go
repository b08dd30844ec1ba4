package fulfillment

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// La creación y la anulación de un bon tocan nota, stock y movimientos a la vez;
// o se confirma todo o no se escribe nada.
type TxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		noteRepo repository.DeliveryNoteRepository,
		stockRepo repository.StockRecordRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
