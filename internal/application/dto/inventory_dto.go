package dto

import "github.com/shopspring/decimal"

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity con signo: positivo suma, negativo resta (nunca bajo cero).
type AdjustStockRequest struct {
	CatalogItemID string          `json:"catalog_item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Notes         string          `json:"notes,omitempty"`
}

// AdjustStockResponse resultado del ajuste manual.
type AdjustStockResponse struct {
	StockRecordID string          `json:"stock_record_id"`
	NewQuantity   decimal.Decimal `json:"new_quantity"`
	Applied       bool            `json:"applied"` // false si el registro no sigue stock (pasivo)
}

// LowStockAlertDTO una entrada del barrido de stock bajo.
type LowStockAlertDTO struct {
	StockRecordID string          `json:"stock_record_id"`
	OwnerKind     string          `json:"owner_kind"`
	OwnerID       string          `json:"owner_id"`
	OwnerName     string          `json:"owner_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Threshold     decimal.Decimal `json:"threshold"`
	UnitLabel     string          `json:"unit_label,omitempty"`
}

// StockMovementDTO movimiento del historial de un registro de stock.
type StockMovementDTO struct {
	ID             string          `json:"id"`
	StockRecordID  string          `json:"stock_record_id"`
	DeliveryNoteID string          `json:"delivery_note_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      string          `json:"created_at"`
}
