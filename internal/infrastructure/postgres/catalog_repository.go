package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

var (
	_ repository.CatalogItemRepository = (*CatalogItemRepo)(nil)
	_ repository.BOMRepository         = (*BOMRepo)(nil)
)

// CatalogItemRepo implementación de CatalogItemRepository sobre PostgreSQL.
type CatalogItemRepo struct {
	q Querier
}

// NewCatalogItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogItemRepository(q Querier) *CatalogItemRepo {
	return &CatalogItemRepo{q: q}
}

// Create inserta el artículo.
func (r *CatalogItemRepo) Create(ctx context.Context, item *entity.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (id, user_id, name, description, default_unit, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(ctx, query, item.ID, item.UserID, item.Name, item.Description, item.DefaultUnit, item.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create catalog item: %w", err)
	}
	return nil
}

// GetByID obtiene el artículo dentro del tenant.
func (r *CatalogItemRepo) GetByID(ctx context.Context, userID, id string) (*entity.CatalogItem, error) {
	query := `
		SELECT id, user_id, name, description, default_unit, active, created_at, updated_at
		FROM catalog_items WHERE id = $1 AND user_id = $2`
	var item entity.CatalogItem
	err := r.q.QueryRow(ctx, query, id, userID).Scan(
		&item.ID, &item.UserID, &item.Name, &item.Description, &item.DefaultUnit,
		&item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return &item, nil
}

// List devuelve los artículos del usuario por nombre.
func (r *CatalogItemRepo) List(ctx context.Context, userID string, limit, offset int) ([]*entity.CatalogItem, error) {
	query := `
		SELECT id, user_id, name, description, default_unit, active, created_at, updated_at
		FROM catalog_items WHERE user_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	var out []*entity.CatalogItem
	for rows.Next() {
		var item entity.CatalogItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Description, &item.DefaultUnit,
			&item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

// Update actualiza los datos del artículo.
func (r *CatalogItemRepo) Update(ctx context.Context, item *entity.CatalogItem) error {
	query := `
		UPDATE catalog_items
		SET name = $2, description = $3, default_unit = $4, active = $5, updated_at = now()
		WHERE id = $1 AND user_id = $6`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Name, item.Description, item.DefaultUnit, item.Active, item.UserID)
	if err != nil {
		return fmt.Errorf("update catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el artículo; las aristas BOM caen por FK ON DELETE CASCADE.
func (r *CatalogItemRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BOMRepo implementación de BOMRepository sobre PostgreSQL.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// Create inserta la arista; el par (catalog_item_id, resource_id) es único.
func (r *BOMRepo) Create(ctx context.Context, edge *entity.CatalogItemResource) error {
	query := `
		INSERT INTO catalog_item_resources (id, catalog_item_id, resource_id, quantity_needed, created_at)
		VALUES ($1, $2, $3, $4, now())`
	_, err := r.q.Exec(ctx, query, edge.ID, edge.CatalogItemID, edge.ResourceID, edge.QuantityNeeded)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create bom edge: %w", err)
	}
	return nil
}

// ListByItem devuelve las aristas del artículo.
func (r *BOMRepo) ListByItem(ctx context.Context, catalogItemID string) ([]*entity.CatalogItemResource, error) {
	query := `
		SELECT id, catalog_item_id, resource_id, quantity_needed, created_at
		FROM catalog_item_resources WHERE catalog_item_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, catalogItemID)
	if err != nil {
		return nil, fmt.Errorf("list bom edges: %w", err)
	}
	defer rows.Close()

	var out []*entity.CatalogItemResource
	for rows.Next() {
		var e entity.CatalogItemResource
		if err := rows.Scan(&e.ID, &e.CatalogItemID, &e.ResourceID, &e.QuantityNeeded, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bom edge: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// CountByItem cuenta las aristas del artículo.
func (r *BOMRepo) CountByItem(ctx context.Context, catalogItemID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM catalog_item_resources WHERE catalog_item_id = $1`, catalogItemID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bom edges: %w", err)
	}
	return n, nil
}

// UpdateQuantity cambia la cantidad necesaria de la arista.
func (r *BOMRepo) UpdateQuantity(ctx context.Context, edgeID string, quantityNeeded decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE catalog_item_resources SET quantity_needed = $2 WHERE id = $1`, edgeID, quantityNeeded)
	if err != nil {
		return fmt.Errorf("update bom edge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la arista.
func (r *BOMRepo) Delete(ctx context.Context, edgeID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM catalog_item_resources WHERE id = $1`, edgeID)
	if err != nil {
		return fmt.Errorf("delete bom edge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get obtiene una arista por id.
func (r *BOMRepo) Get(ctx context.Context, edgeID string) (*entity.CatalogItemResource, error) {
	query := `
		SELECT id, catalog_item_id, resource_id, quantity_needed, created_at
		FROM catalog_item_resources WHERE id = $1`
	var e entity.CatalogItemResource
	err := r.q.QueryRow(ctx, query, edgeID).Scan(&e.ID, &e.CatalogItemID, &e.ResourceID, &e.QuantityNeeded, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom edge: %w", err)
	}
	return &e, nil
}
