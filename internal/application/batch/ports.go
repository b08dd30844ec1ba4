package batch

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción. Registrar un lote nuevo cierra el
// vigente e inserta el reemplazo en la misma tx: así nunca queda visible un estado
// con dos lotes vigentes o con ninguno.
type TxRunner interface {
	RunBatch(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error
}
