package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementOut     = "out"     // deducción por bon de livraison
	MovementRestore = "restore" // reposición por anulación del bon
	MovementAdjust  = "adjust"  // ajuste manual del operador
)

// StockMovement es el rastro persistente de cada delta aplicado a un StockRecord.
// Para un bon de livraison, el conjunto de movimientos 'out' ES el snapshot resuelto:
// la anulación rejuega exactamente estos deltas invertidos, nunca recalcula desde la
// lista de materiales vigente (ediciones posteriores del BOM no corrompen la reposición).
type StockMovement struct {
	ID             string
	UserID         string
	StockRecordID  string
	DeliveryNoteID string // vacío para ajustes manuales
	Type           string
	Quantity       decimal.Decimal // con signo: negativo deducción, positivo reposición/ajuste+
	Notes          string
	RestoredAt     *time.Time // marcado al rejugar; evita doble reposición
	CreatedAt      time.Time
	CreatedBy      string
}
