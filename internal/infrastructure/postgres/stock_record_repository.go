package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de registros de stock. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `id, user_id, owner_kind, owner_id, quantity, low_stock_threshold, tracking_enabled, unit_label, active, updated_at`

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.OwnerKind, &rec.OwnerID,
		&rec.Quantity, &rec.LowStockThreshold, &rec.TrackingEnabled,
		&rec.UnitLabel, &rec.Active, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Get obtiene un registro por id dentro del tenant.
func (r *StockRecordRepo) Get(ctx context.Context, userID, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE id = $1 AND user_id = $2`
	rec, err := scanStockRecord(r.q.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return rec, nil
}

// GetByOwner obtiene el registro de un dueño concreto (único por owner_kind + owner_id).
func (r *StockRecordRepo) GetByOwner(ctx context.Context, ownerKind, ownerID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE owner_kind = $1 AND owner_id = $2`
	rec, err := scanStockRecord(r.q.QueryRow(ctx, query, ownerKind, ownerID))
	if err != nil {
		return nil, fmt.Errorf("get stock record by owner: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila hasta el fin de la transacción.
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE id = $1 FOR UPDATE`
	rec, err := scanStockRecord(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return rec, nil
}

// Create inserta el registro de stock.
func (r *StockRecordRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (id, user_id, owner_kind, owner_id, quantity, low_stock_threshold, tracking_enabled, unit_label, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.UserID, rec.OwnerKind, rec.OwnerID,
		rec.Quantity, rec.LowStockThreshold, rec.TrackingEnabled, rec.UnitLabel, rec.Active,
	)
	if err != nil {
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

// UpdateQuantity escribe la nueva cantidad. Solo el Ledger llama aquí, con la fila bloqueada.
func (r *StockRecordRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	query := `UPDATE stock_records SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock quantity: registro %s no existe", id)
	}
	return nil
}

// UpdateSettings actualiza umbral, unidad, seguimiento y estado activo (no la cantidad).
func (r *StockRecordRepo) UpdateSettings(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET low_stock_threshold = $2, tracking_enabled = $3, unit_label = $4, active = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, rec.ID, rec.LowStockThreshold, rec.TrackingEnabled, rec.UnitLabel, rec.Active)
	if err != nil {
		return fmt.Errorf("update stock settings: %w", err)
	}
	return nil
}

// DeleteByOwner elimina el registro del dueño (cascada de borrado de artículo/recurso/variante).
func (r *StockRecordRepo) DeleteByOwner(ctx context.Context, ownerKind, ownerID string) error {
	query := `DELETE FROM stock_records WHERE owner_kind = $1 AND owner_id = $2`
	_, err := r.q.Exec(ctx, query, ownerKind, ownerID)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	return nil
}

// ListLowStock barre las tres clases de dueño en una sola consulta, resolviendo el
// nombre del dueño con LEFT JOIN. Los registros inertes de materias primas con
// variantes quedan fuera (tracking_enabled = false los excluye).
func (r *StockRecordRepo) ListLowStock(ctx context.Context, userID string) ([]repository.LowStockRow, error) {
	query := `
		SELECT sr.id, sr.owner_kind, sr.owner_id,
		       COALESCE(ci.name, CASE WHEN rv.id IS NOT NULL THEN vr.name || ' / ' || rv.name ELSE res.name END, '') AS owner_name,
		       sr.quantity, sr.low_stock_threshold, sr.unit_label
		FROM stock_records sr
		LEFT JOIN catalog_items ci ON sr.owner_kind = 'catalog_item' AND ci.id = sr.owner_id
		LEFT JOIN resources res ON sr.owner_kind = 'resource' AND res.id = sr.owner_id
		LEFT JOIN resource_variants rv ON sr.owner_kind = 'resource_variant' AND rv.id = sr.owner_id
		LEFT JOIN resources vr ON vr.id = rv.resource_id
		WHERE sr.user_id = $1
		  AND sr.tracking_enabled
		  AND sr.active
		  AND sr.quantity <= sr.low_stock_threshold
		ORDER BY sr.owner_kind, owner_name`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.StockRecordID, &row.OwnerKind, &row.OwnerID, &row.OwnerName,
			&row.Quantity, &row.Threshold, &row.UnitLabel); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountLowStock devuelve solo el número de registros en alerta.
func (r *StockRecordRepo) CountLowStock(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT count(*)
		FROM stock_records
		WHERE user_id = $1 AND tracking_enabled AND active AND quantity <= low_stock_threshold`
	var n int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}
