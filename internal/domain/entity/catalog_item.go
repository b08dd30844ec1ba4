package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem representa un artículo terminado del catálogo del laboratorio
// (corona, puente, férula...). Su stock puede seguirse directamente
// (TrackStock en su StockRecord) o deducirse vía lista de materiales, nunca ambos.
type CatalogItem struct {
	ID          string
	UserID      string
	Name        string
	Description string
	DefaultUnit string // unidad de venta: unité, pièce...
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CatalogItemResource es una arista de la lista de materiales (BOM):
// QuantityNeeded unidades del artículo consumen 1 unidad de la materia prima.
// Ej: QuantityNeeded=28 -> 28 coronas consumen 1 disco (1/28 de disco por corona).
type CatalogItemResource struct {
	ID             string
	CatalogItemID  string
	ResourceID     string
	QuantityNeeded decimal.Decimal // > 0
	CreatedAt      time.Time
}
