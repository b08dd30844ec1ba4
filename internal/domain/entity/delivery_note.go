package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del bon de livraison. Avance estrictamente hacia adelante, de a un paso.
const (
	NoteStatusPending    = "pending"
	NoteStatusInProgress = "in_progress"
	NoteStatusCompleted  = "completed"
)

// NextNoteStatus devuelve el único estado siguiente válido, o "" si es terminal.
func NextNoteStatus(status string) string {
	switch status {
	case NoteStatusPending:
		return NoteStatusInProgress
	case NoteStatusInProgress:
		return NoteStatusCompleted
	}
	return ""
}

// DeliveryNote representa un bon de livraison. La deducción de stock ocurre una sola
// vez, al crearlo; la anulación (permitida solo sin factura vinculada) rejuega los
// movimientos almacenados y elimina el registro.
type DeliveryNote struct {
	ID        string
	UserID    string
	DentistID string
	Status    string
	InvoiceID *string // facturado => no se puede anular
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeliveryNoteItem es una línea del bon: artículo del catálogo y cantidad entregada.
// ResourceVariants mapea resource_id -> variant_id para materias primas con variantes.
type DeliveryNoteItem struct {
	ID               string
	DeliveryNoteID   string
	CatalogItemID    string
	Quantity         decimal.Decimal
	ResourceVariants map[string]string
}
