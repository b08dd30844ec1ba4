package resources

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción (materia prima + registros de stock).
type TxRunner interface {
	RunResources(ctx context.Context, fn func(
		resourceRepo repository.ResourceRepository,
		stockRepo repository.StockRecordRepository,
	) error) error
}
