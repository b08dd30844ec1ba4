package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo implementación de ResourceRepository sobre PostgreSQL.
type ResourceRepo struct {
	q Querier
}

// NewResourceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewResourceRepository(q Querier) *ResourceRepo {
	return &ResourceRepo{q: q}
}

// Create inserta la materia prima.
func (r *ResourceRepo) Create(ctx context.Context, res *entity.Resource) error {
	query := `
		INSERT INTO resources (id, user_id, name, description, unit, has_variants, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.q.Exec(ctx, query, res.ID, res.UserID, res.Name, res.Description, res.Unit, res.HasVariants, res.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// GetByID obtiene la materia prima dentro del tenant.
func (r *ResourceRepo) GetByID(ctx context.Context, userID, id string) (*entity.Resource, error) {
	query := `
		SELECT id, user_id, name, description, unit, has_variants, active, created_at, updated_at
		FROM resources WHERE id = $1 AND user_id = $2`
	var res entity.Resource
	err := r.q.QueryRow(ctx, query, id, userID).Scan(
		&res.ID, &res.UserID, &res.Name, &res.Description, &res.Unit,
		&res.HasVariants, &res.Active, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &res, nil
}

// List devuelve las materias primas del usuario por nombre.
func (r *ResourceRepo) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Resource, error) {
	query := `
		SELECT id, user_id, name, description, unit, has_variants, active, created_at, updated_at
		FROM resources WHERE user_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []*entity.Resource
	for rows.Next() {
		var res entity.Resource
		if err := rows.Scan(&res.ID, &res.UserID, &res.Name, &res.Description, &res.Unit,
			&res.HasVariants, &res.Active, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// Update actualiza los datos de la materia prima.
func (r *ResourceRepo) Update(ctx context.Context, res *entity.Resource) error {
	query := `
		UPDATE resources
		SET name = $2, description = $3, unit = $4, has_variants = $5, active = $6, updated_at = now()
		WHERE id = $1 AND user_id = $7`
	tag, err := r.q.Exec(ctx, query, res.ID, res.Name, res.Description, res.Unit, res.HasVariants, res.Active, res.UserID)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la materia prima; las variantes caen por FK ON DELETE CASCADE.
func (r *ResourceRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM resources WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateVariant inserta una variante.
func (r *ResourceRepo) CreateVariant(ctx context.Context, v *entity.ResourceVariant) error {
	query := `
		INSERT INTO resource_variants (id, resource_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`
	_, err := r.q.Exec(ctx, query, v.ID, v.ResourceID, v.Name, v.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create variant: %w", err)
	}
	return nil
}

// GetVariant obtiene una variante por id.
func (r *ResourceRepo) GetVariant(ctx context.Context, id string) (*entity.ResourceVariant, error) {
	query := `
		SELECT id, resource_id, name, active, created_at, updated_at
		FROM resource_variants WHERE id = $1`
	var v entity.ResourceVariant
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.ResourceID, &v.Name, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// ListVariants devuelve las variantes de una materia prima.
func (r *ResourceRepo) ListVariants(ctx context.Context, resourceID string) ([]*entity.ResourceVariant, error) {
	query := `
		SELECT id, resource_id, name, active, created_at, updated_at
		FROM resource_variants WHERE resource_id = $1
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var out []*entity.ResourceVariant
	for rows.Next() {
		var v entity.ResourceVariant
		if err := rows.Scan(&v.ID, &v.ResourceID, &v.Name, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// UpdateVariant actualiza nombre y estado de la variante.
func (r *ResourceRepo) UpdateVariant(ctx context.Context, v *entity.ResourceVariant) error {
	query := `UPDATE resource_variants SET name = $2, active = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, v.ID, v.Name, v.Active)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteVariant elimina la variante.
func (r *ResourceRepo) DeleteVariant(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM resource_variants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
