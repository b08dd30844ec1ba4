package dto

import "github.com/shopspring/decimal"

// NoteItemRequest línea de un bon de livraison. ResourceVariants mapea
// resource_id -> variant_id para materias primas con variantes.
type NoteItemRequest struct {
	CatalogItemID    string            `json:"catalog_item_id"`
	Quantity         decimal.Decimal   `json:"quantity"`
	ResourceVariants map[string]string `json:"resource_variants,omitempty"`
}

// CreateDeliveryNoteRequest body para POST /api/delivery-notes.
type CreateDeliveryNoteRequest struct {
	DentistID string            `json:"dentist_id,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Items     []NoteItemRequest `json:"items"`
}

// AdvanceStatusRequest body para PUT /api/delivery-notes/:id/status.
// From explícito: la transición es una acción auditada de a un paso.
type AdvanceStatusRequest struct {
	From string `json:"from"`
}

// DeliveryNoteDTO bon de livraison en respuestas.
type DeliveryNoteDTO struct {
	ID        string            `json:"id"`
	DentistID string            `json:"dentist_id,omitempty"`
	Status    string            `json:"status"`
	InvoiceID *string           `json:"invoice_id,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Items     []NoteItemRequest `json:"items,omitempty"`
	CreatedAt string            `json:"created_at"`
}
