package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

// DeliveryNoteRepo implementación de DeliveryNoteRepository sobre PostgreSQL.
type DeliveryNoteRepo struct {
	q Querier
}

// NewDeliveryNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryNoteRepository(q Querier) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{q: q}
}

const noteColumns = `id, user_id, dentist_id, status, invoice_id, notes, created_at, updated_at`

func scanNote(row pgx.Row) (*entity.DeliveryNote, error) {
	var n entity.DeliveryNote
	err := row.Scan(&n.ID, &n.UserID, &n.DentistID, &n.Status, &n.InvoiceID, &n.Notes, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Create inserta el bon y sus líneas. Las variantes elegidas por línea se guardan
// como JSONB (resource_id -> variant_id).
func (r *DeliveryNoteRepo) Create(ctx context.Context, note *entity.DeliveryNote, items []*entity.DeliveryNoteItem) error {
	query := `
		INSERT INTO delivery_notes (id, user_id, dentist_id, status, invoice_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	_, err := r.q.Exec(ctx, query, note.ID, note.UserID, note.DentistID, note.Status, note.InvoiceID, note.Notes, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("create delivery note: %w", err)
	}
	itemQuery := `
		INSERT INTO delivery_note_items (id, delivery_note_id, catalog_item_id, quantity, resource_variants)
		VALUES ($1, $2, $3, $4, $5)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, it.DeliveryNoteID, it.CatalogItemID, it.Quantity, it.ResourceVariants); err != nil {
			return fmt.Errorf("create delivery note item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el bon dentro del tenant.
func (r *DeliveryNoteRepo) GetByID(ctx context.Context, userID, id string) (*entity.DeliveryNote, error) {
	query := `SELECT ` + noteColumns + ` FROM delivery_notes WHERE id = $1 AND user_id = $2`
	n, err := scanNote(r.q.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	return n, nil
}

// GetForUpdate obtiene el bon y bloquea la fila. La segunda anulación concurrente
// espera aquí y al despertar ya no encuentra la fila.
func (r *DeliveryNoteRepo) GetForUpdate(ctx context.Context, userID, id string) (*entity.DeliveryNote, error) {
	query := `SELECT ` + noteColumns + ` FROM delivery_notes WHERE id = $1 AND user_id = $2 FOR UPDATE`
	n, err := scanNote(r.q.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get delivery note for update: %w", err)
	}
	return n, nil
}

// List devuelve los bons del usuario, más recientes primero.
func (r *DeliveryNoteRepo) List(ctx context.Context, userID string, limit, offset int) ([]*entity.DeliveryNote, error) {
	query := `SELECT ` + noteColumns + ` FROM delivery_notes WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	defer rows.Close()

	var out []*entity.DeliveryNote
	for rows.Next() {
		var n entity.DeliveryNote
		if err := rows.Scan(&n.ID, &n.UserID, &n.DentistID, &n.Status, &n.InvoiceID, &n.Notes, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery note: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// ListItems devuelve las líneas del bon.
func (r *DeliveryNoteRepo) ListItems(ctx context.Context, deliveryNoteID string) ([]*entity.DeliveryNoteItem, error) {
	query := `
		SELECT id, delivery_note_id, catalog_item_id, quantity, resource_variants
		FROM delivery_note_items WHERE delivery_note_id = $1`
	rows, err := r.q.Query(ctx, query, deliveryNoteID)
	if err != nil {
		return nil, fmt.Errorf("list delivery note items: %w", err)
	}
	defer rows.Close()

	var out []*entity.DeliveryNoteItem
	for rows.Next() {
		var it entity.DeliveryNoteItem
		if err := rows.Scan(&it.ID, &it.DeliveryNoteID, &it.CatalogItemID, &it.Quantity, &it.ResourceVariants); err != nil {
			return nil, fmt.Errorf("scan delivery note item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// UpdateStatus avanza el estado solo si el actual coincide con from (update guardado).
func (r *DeliveryNoteRepo) UpdateStatus(ctx context.Context, userID, id, from, to string) (bool, error) {
	query := `
		UPDATE delivery_notes SET status = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status = $3`
	tag, err := r.q.Exec(ctx, query, id, userID, from, to)
	if err != nil {
		return false, fmt.Errorf("update delivery note status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete elimina el bon; las líneas caen por FK ON DELETE CASCADE. Los movimientos
// de stock sobreviven (delivery_note_id con ON DELETE SET NULL) como rastro.
func (r *DeliveryNoteRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM delivery_notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete delivery note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete delivery note: no existe %s", id)
	}
	return nil
}
