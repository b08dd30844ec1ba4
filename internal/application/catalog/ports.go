package catalog

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción. Las mutaciones del catálogo que
// tocan a la vez artículo, BOM y registro de stock (alta, tracking, aristas) van
// siempre por aquí: la exclusividad stock directo / BOM se decide con la fila de
// stock bloqueada.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		itemRepo repository.CatalogItemRepository,
		bomRepo repository.BOMRepository,
		stockRepo repository.StockRecordRepository,
	) error) error
}
