package memory

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// TxRunner transacciones en memoria para tests: clona el estado antes de ejecutar
// fn y lo restaura completo si fn devuelve error. Así un caso de uso que falla a
// mitad de camino no deja escrituras parciales, igual que con pgx.BeginFunc.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store compartido.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (t *TxRunner) run(fn func() error) error {
	t.s.mu.Lock()
	before := t.s.snapshot()
	t.s.mu.Unlock()
	if err := fn(); err != nil {
		t.s.mu.Lock()
		t.s.restore(before)
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// Run transacción de inventario (registro de stock + movimientos).
func (t *TxRunner) Run(_ context.Context, fn func(repository.StockRecordRepository, repository.StockMovementRepository) error) error {
	return t.run(func() error {
		return fn(NewStockRecordRepo(t.s), NewStockMovementRepo(t.s))
	})
}

// RunFulfillment transacción de albaranes (nota + stock + movimientos).
func (t *TxRunner) RunFulfillment(_ context.Context, fn func(repository.DeliveryNoteRepository, repository.StockRecordRepository, repository.StockMovementRepository) error) error {
	return t.run(func() error {
		return fn(NewDeliveryNoteRepo(t.s), NewStockRecordRepo(t.s), NewStockMovementRepo(t.s))
	})
}

// RunCatalog transacción de catálogo (artículo + BOM + stock).
func (t *TxRunner) RunCatalog(_ context.Context, fn func(repository.CatalogItemRepository, repository.BOMRepository, repository.StockRecordRepository) error) error {
	return t.run(func() error {
		return fn(NewCatalogItemRepo(t.s), NewBOMRepo(t.s), NewStockRecordRepo(t.s))
	})
}

// RunResources transacción de materias primas (recurso + stock).
func (t *TxRunner) RunResources(_ context.Context, fn func(repository.ResourceRepository, repository.StockRecordRepository) error) error {
	return t.run(func() error {
		return fn(NewResourceRepo(t.s), NewStockRecordRepo(t.s))
	})
}

// RunBatch transacción de lotes.
func (t *TxRunner) RunBatch(_ context.Context, fn func(repository.BatchRepository) error) error {
	return t.run(func() error {
		return fn(NewBatchRepo(t.s))
	})
}
