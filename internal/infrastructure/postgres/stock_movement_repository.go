package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. delivery_note_id NULL para ajustes manuales.
func (r *StockMovementRepo) Create(ctx context.Context, mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, user_id, stock_record_id, delivery_note_id, type, quantity, notes, restored_at, created_at, created_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULL, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		mov.ID, mov.UserID, mov.StockRecordID, mov.DeliveryNoteID,
		mov.Type, mov.Quantity, mov.Notes, mov.CreatedAt, mov.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListOutstandingByNote devuelve los movimientos 'out' aún no restaurados del bon,
// bloqueando las filas para que dos anulaciones no los rejueguen a la vez.
func (r *StockMovementRepo) ListOutstandingByNote(ctx context.Context, deliveryNoteID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, user_id, stock_record_id, COALESCE(delivery_note_id, ''), type, quantity, notes, restored_at, created_at, created_by
		FROM stock_movements
		WHERE delivery_note_id = $1 AND type = 'out' AND restored_at IS NULL
		ORDER BY stock_record_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, deliveryNoteID)
	if err != nil {
		return nil, fmt.Errorf("list outstanding movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.UserID, &m.StockRecordID, &m.DeliveryNoteID, &m.Type,
			&m.Quantity, &m.Notes, &m.RestoredAt, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// MarkRestored marca los movimientos como repuestos.
func (r *StockMovementRepo) MarkRestored(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE stock_movements SET restored_at = $2 WHERE id = ANY($1)`
	_, err := r.q.Exec(ctx, query, ids, at)
	if err != nil {
		return fmt.Errorf("mark movements restored: %w", err)
	}
	return nil
}

// ListByRecord devuelve los movimientos de un registro, más recientes primero.
func (r *StockMovementRepo) ListByRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, user_id, stock_record_id, COALESCE(delivery_note_id, ''), type, quantity, notes, restored_at, created_at, created_by
		FROM stock_movements
		WHERE stock_record_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, stockRecordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.UserID, &m.StockRecordID, &m.DeliveryNoteID, &m.Type,
			&m.Quantity, &m.Notes, &m.RestoredAt, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
