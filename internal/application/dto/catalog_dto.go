package dto

import "github.com/shopspring/decimal"

// CreateCatalogItemRequest body para POST /api/catalog/items.
type CreateCatalogItemRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	DefaultUnit       string          `json:"default_unit"`
	TrackStock        bool            `json:"track_stock"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateCatalogItemRequest body para PUT /api/catalog/items/:id.
type UpdateCatalogItemRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	DefaultUnit       string          `json:"default_unit"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Active            *bool           `json:"active,omitempty"`
}

// SetTrackingRequest body para PUT /api/catalog/items/:id/tracking.
type SetTrackingRequest struct {
	Enabled bool `json:"enabled"`
}

// AddBOMEdgeRequest body para POST /api/catalog/items/:id/resources.
// QuantityNeeded: N unidades terminadas consumen 1 unidad de la materia prima.
type AddBOMEdgeRequest struct {
	ResourceID     string          `json:"resource_id"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// UpdateBOMEdgeRequest body para PUT /api/catalog/resources-links/:edgeId.
type UpdateBOMEdgeRequest struct {
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// BOMEdgeDTO arista de la lista de materiales en respuestas.
type BOMEdgeDTO struct {
	ID             string          `json:"id"`
	ResourceID     string          `json:"resource_id"`
	ResourceName   string          `json:"resource_name,omitempty"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// CatalogItemDTO artículo con su registro de stock y sus aristas BOM.
type CatalogItemDTO struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	DefaultUnit       string          `json:"default_unit"`
	TrackStock        bool            `json:"track_stock"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Active            bool            `json:"active"`
	Resources         []BOMEdgeDTO    `json:"resources,omitempty"`
}
