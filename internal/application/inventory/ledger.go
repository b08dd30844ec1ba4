package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain"
	dominv "github.com/tu-usuario/labstock-api/internal/domain/inventory"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/metrics"
)

// Apply es el único punto de mutación de cantidades: lee la fila con bloqueo
// (SELECT FOR UPDATE vía GetForUpdate), valida y escribe la nueva cantidad en la misma
// transacción. Dos deducciones concurrentes sobre el mismo registro se serializan en la fila.
//
// restore=true es el camino de reposición: nunca falla por stock (reponer no puede dejar
// cantidad negativa). Con restore=false, un delta que dejaría la cantidad bajo cero se
// rechaza con ErrInsufficientStock sin escribir nada.
//
// Devuelve applied=false cuando el registro no sigue stock (pasivo): la escritura directa
// es un no-op, no un error.
func Apply(ctx context.Context, stockRepo repository.StockRecordRepository, d dominv.Delta, restore bool) (newQuantity decimal.Decimal, applied bool, err error) {
	rec, err := stockRepo.GetForUpdate(ctx, d.StockRecordID)
	if err != nil {
		return decimal.Zero, false, err
	}
	if rec == nil {
		return decimal.Zero, false, domain.ErrNotFound
	}
	if !rec.TrackingEnabled {
		return rec.Quantity, false, nil
	}

	newQuantity = rec.Quantity.Add(d.Quantity)
	if !restore && newQuantity.IsNegative() {
		metrics.InsufficientStock.Inc()
		return decimal.Zero, false, fmt.Errorf("registro %s: %w", rec.ID, domain.ErrInsufficientStock)
	}
	if err := stockRepo.UpdateQuantity(ctx, rec.ID, newQuantity); err != nil {
		return decimal.Zero, false, err
	}

	kind := "add"
	switch {
	case restore:
		kind = "restore"
	case d.Quantity.IsNegative():
		kind = "deduct"
	}
	metrics.LedgerApplies.WithLabelValues(rec.OwnerKind, kind).Inc()
	return newQuantity, true, nil
}
