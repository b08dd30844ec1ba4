package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain"
)

// Delta es un ajuste con signo a aplicar sobre un StockRecord concreto.
// El resolver produce el conjunto completo de deltas de un bon de livraison;
// el Ledger los aplica (o los invierte) sin volver a interpretar el BOM.
type Delta struct {
	StockRecordID string
	OwnerKind     string
	Quantity      decimal.Decimal
}

// Inverse devuelve el delta con el signo invertido (reposición).
func (d Delta) Inverse() Delta {
	return Delta{StockRecordID: d.StockRecordID, OwnerKind: d.OwnerKind, Quantity: d.Quantity.Neg()}
}

// ResourceConsumption calcula cuánta materia prima consume una venta (servicio de dominio).
// quantityNeeded codifica "N unidades terminadas consumen 1 unidad de materia prima",
// por lo que Consumo = CantidadVendida / quantityNeeded. La división queda en decimal
// sin redondear: 1/28 de disco por corona es un consumo válido y la precisión por
// defecto de shopspring (16 decimales) evita deriva en consumos pequeños repetidos.
func ResourceConsumption(quantitySold, quantityNeeded decimal.Decimal) (decimal.Decimal, error) {
	if quantityNeeded.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return quantitySold.Div(quantityNeeded), nil
}
