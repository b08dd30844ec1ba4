package dto

import "github.com/shopspring/decimal"

// CreateResourceRequest body para POST /api/resources.
type CreateResourceRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Unit              string          `json:"unit"`
	HasVariants       bool            `json:"has_variants"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateResourceRequest body para PUT /api/resources/:id.
type UpdateResourceRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Unit              string          `json:"unit"`
	HasVariants       *bool           `json:"has_variants,omitempty"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Active            *bool           `json:"active,omitempty"`
}

// CreateVariantRequest body para POST /api/resources/:id/variants.
type CreateVariantRequest struct {
	Name              string          `json:"name"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// ResourceVariantDTO variante con su stock.
type ResourceVariantDTO struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Active            bool            `json:"active"`
}

// ResourceDTO materia prima con stock (o variantes si HasVariants).
type ResourceDTO struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	Unit              string               `json:"unit"`
	HasVariants       bool                 `json:"has_variants"`
	StockQuantity     decimal.Decimal      `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal      `json:"low_stock_threshold"`
	Active            bool                 `json:"active"`
	Variants          []ResourceVariantDTO `json:"variants,omitempty"`
}
