package repository

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// DeliveryNoteRepository bons de livraison y sus líneas.
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote, items []*entity.DeliveryNoteItem) error
	GetByID(ctx context.Context, userID, id string) (*entity.DeliveryNote, error)
	// GetForUpdate bloquea el bon durante la anulación (la segunda anulación concurrente
	// espera y luego no lo encuentra).
	GetForUpdate(ctx context.Context, userID, id string) (*entity.DeliveryNote, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.DeliveryNote, error)
	ListItems(ctx context.Context, deliveryNoteID string) ([]*entity.DeliveryNoteItem, error)
	// UpdateStatus avanza el estado solo si el actual coincide con from; devuelve false
	// si otra transición ganó la carrera.
	UpdateStatus(ctx context.Context, userID, id, from, to string) (bool, error)
	Delete(ctx context.Context, userID, id string) error
}
