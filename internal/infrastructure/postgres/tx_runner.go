package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/labstock-api/internal/application/batch"
	"github.com/tu-usuario/labstock-api/internal/application/catalog"
	"github.com/tu-usuario/labstock-api/internal/application/fulfillment"
	"github.com/tu-usuario/labstock-api/internal/application/inventory"
	"github.com/tu-usuario/labstock-api/internal/application/resources"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/metrics"
)

// Ensure TxRunner implementa los puertos transaccionales de cada caso de uso.
var (
	_ inventory.TxRunner   = (*TxRunner)(nil)
	_ fulfillment.TxRunner = (*TxRunner)(nil)
	_ catalog.TxRunner     = (*TxRunner)(nil)
	_ resources.TxRunner   = (*TxRunner)(nil)
	_ batch.TxRunner       = (*TxRunner)(nil)
)

// maxTxAttempts intentos por transacción ante conflicto de serialización o deadlock.
const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con reintento
// acotado cuando el servidor aborta por conflicto de concurrencia (40001, 40P01).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			metrics.TxRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}
		lastErr = r.once(ctx, fn)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%w: transacción abortada tras %d intentos: %v", domain.ErrConflict, maxTxAttempts, lastErr)
}

func (r *TxRunner) once(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción de inventario: registro de stock + movimientos (ajustes manuales).
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStockRecordRepository(q), NewStockMovementRepository(q))
	})
}

// RunFulfillment transacción de bons de livraison: nota + stock + movimientos.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	noteRepo repository.DeliveryNoteRepository,
	stockRepo repository.StockRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewDeliveryNoteRepository(q), NewStockRecordRepository(q), NewStockMovementRepository(q))
	})
}

// RunCatalog transacción de catálogo: artículo + BOM + stock.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	itemRepo repository.CatalogItemRepository,
	bomRepo repository.BOMRepository,
	stockRepo repository.StockRecordRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewCatalogItemRepository(q), NewBOMRepository(q), NewStockRecordRepository(q))
	})
}

// RunResources transacción de materias primas: recurso + stock.
func (r *TxRunner) RunResources(ctx context.Context, fn func(
	resourceRepo repository.ResourceRepository,
	stockRepo repository.StockRecordRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewResourceRepository(q), NewStockRecordRepository(q))
	})
}

// RunBatch transacción de lotes.
func (r *TxRunner) RunBatch(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewBatchRepository(q))
	})
}
