package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de dueño de un registro de stock. Las tres variantes comparten el mismo
// contrato (cantidad, umbral, seguimiento) y el Ledger/Scanner operan uniformemente.
const (
	OwnerCatalogItem     = "catalog_item"     // artículo terminado del catálogo
	OwnerResource        = "resource"         // materia prima sin variantes
	OwnerResourceVariant = "resource_variant" // variante de materia prima (tono, diámetro...)
)

// StockRecord es la unidad atómica de stock: cantidad actual y umbral de alerta.
// Solo se muta a través del Ledger (GetForUpdate + UpdateQuantity en una tx);
// nunca por asignación directa desde otros casos de uso.
type StockRecord struct {
	ID                string
	UserID            string // laboratorio dueño (tenant)
	OwnerKind         string // catalog_item | resource | resource_variant
	OwnerID           string
	Quantity          decimal.Decimal // >= 0 siempre (invariante del Ledger)
	LowStockThreshold decimal.Decimal
	TrackingEnabled   bool // false = registro pasivo, las escrituras directas son no-op
	UnitLabel         string
	Active            bool
	UpdatedAt         time.Time
}

// IsLowStock indica si el registro está en o bajo su umbral de alerta.
func (s *StockRecord) IsLowStock() bool {
	return s.TrackingEnabled && s.Active && s.Quantity.LessThanOrEqual(s.LowStockThreshold)
}
