package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// CreateBrand inserta la marca.
func (r *BatchRepo) CreateBrand(ctx context.Context, b *entity.BatchBrand) error {
	query := `
		INSERT INTO batch_brands (id, user_id, name, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(ctx, query, b.ID, b.UserID, b.Name, b.Description, b.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch brand: %w", err)
	}
	return nil
}

// ListBrands devuelve las marcas del usuario.
func (r *BatchRepo) ListBrands(ctx context.Context, userID string) ([]*entity.BatchBrand, error) {
	query := `
		SELECT id, user_id, name, description, active, created_at, updated_at
		FROM batch_brands WHERE user_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list batch brands: %w", err)
	}
	defer rows.Close()

	var out []*entity.BatchBrand
	for rows.Next() {
		var b entity.BatchBrand
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch brand: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// UpdateBrand actualiza la marca.
func (r *BatchRepo) UpdateBrand(ctx context.Context, b *entity.BatchBrand) error {
	query := `
		UPDATE batch_brands SET name = $2, description = $3, active = $4, updated_at = now()
		WHERE id = $1 AND user_id = $5`
	tag, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Description, b.Active, b.UserID)
	if err != nil {
		return fmt.Errorf("update batch brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBrand elimina la marca; materiales y lotes caen por FK ON DELETE CASCADE.
func (r *BatchRepo) DeleteBrand(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM batch_brands WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete batch brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateMaterial inserta el material.
func (r *BatchRepo) CreateMaterial(ctx context.Context, m *entity.BatchMaterial) error {
	query := `
		INSERT INTO batch_materials (id, user_id, brand_id, name, description, material_type, favorite, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.BrandID, m.Name, m.Description, m.MaterialType, m.Favorite, m.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch material: %w", err)
	}
	return nil
}

const materialColumns = `m.id, m.user_id, m.brand_id, COALESCE(b.name, ''), m.name, m.description, m.material_type, m.favorite, m.active, m.created_at, m.updated_at`

// GetMaterial obtiene el material con el nombre de su marca.
func (r *BatchRepo) GetMaterial(ctx context.Context, userID, id string) (*entity.BatchMaterial, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM batch_materials m LEFT JOIN batch_brands b ON b.id = m.brand_id
		WHERE m.id = $1 AND m.user_id = $2`
	var m entity.BatchMaterial
	err := r.q.QueryRow(ctx, query, id, userID).Scan(
		&m.ID, &m.UserID, &m.BrandID, &m.BrandName, &m.Name, &m.Description,
		&m.MaterialType, &m.Favorite, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch material: %w", err)
	}
	return &m, nil
}

// ListMaterials devuelve los materiales del usuario, favoritos primero.
func (r *BatchRepo) ListMaterials(ctx context.Context, userID string) ([]*entity.BatchMaterial, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM batch_materials m LEFT JOIN batch_brands b ON b.id = m.brand_id
		WHERE m.user_id = $1
		ORDER BY m.favorite DESC, m.name`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list batch materials: %w", err)
	}
	defer rows.Close()

	var out []*entity.BatchMaterial
	for rows.Next() {
		var m entity.BatchMaterial
		if err := rows.Scan(&m.ID, &m.UserID, &m.BrandID, &m.BrandName, &m.Name, &m.Description,
			&m.MaterialType, &m.Favorite, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch material: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// UpdateMaterial actualiza el material.
func (r *BatchRepo) UpdateMaterial(ctx context.Context, m *entity.BatchMaterial) error {
	query := `
		UPDATE batch_materials
		SET brand_id = $2, name = $3, description = $4, material_type = $5, favorite = $6, active = $7, updated_at = now()
		WHERE id = $1 AND user_id = $8`
	tag, err := r.q.Exec(ctx, query, m.ID, m.BrandID, m.Name, m.Description, m.MaterialType, m.Favorite, m.Active, m.UserID)
	if err != nil {
		return fmt.Errorf("update batch material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetMaterialFavorite marca o desmarca el material como favorito.
func (r *BatchRepo) SetMaterialFavorite(ctx context.Context, userID, id string, favorite bool) error {
	query := `UPDATE batch_materials SET favorite = $3, updated_at = now() WHERE id = $1 AND user_id = $2`
	tag, err := r.q.Exec(ctx, query, id, userID, favorite)
	if err != nil {
		return fmt.Errorf("set material favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMaterial elimina el material; su historial de lotes cae por FK ON DELETE CASCADE.
func (r *BatchRepo) DeleteMaterial(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM batch_materials WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete batch material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CloseCurrentBatch cierra el lote vigente del material y devuelve cuántas filas cerró.
// Debe ejecutarse en la misma transacción que InsertBatch.
func (r *BatchRepo) CloseCurrentBatch(ctx context.Context, materialID string, at time.Time) (int, error) {
	query := `
		UPDATE batch_numbers SET is_current = false, ended_at = $2
		WHERE material_id = $1 AND is_current`
	tag, err := r.q.Exec(ctx, query, materialID, at)
	if err != nil {
		return 0, fmt.Errorf("close current batch: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertBatch inserta un número de lote.
func (r *BatchRepo) InsertBatch(ctx context.Context, b *entity.BatchNumber) error {
	query := `
		INSERT INTO batch_numbers (id, user_id, material_id, code, is_current, started_at, ended_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, b.ID, b.UserID, b.MaterialID, b.Code, b.Current, b.StartedAt, b.EndedAt, b.Notes, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

const batchColumns = `id, user_id, material_id, code, is_current, started_at, ended_at, notes, created_at`

// GetCurrentBatch obtiene el lote vigente del material, o nil si no hay.
func (r *BatchRepo) GetCurrentBatch(ctx context.Context, materialID string) (*entity.BatchNumber, error) {
	query := `SELECT ` + batchColumns + ` FROM batch_numbers WHERE material_id = $1 AND is_current`
	var b entity.BatchNumber
	err := r.q.QueryRow(ctx, query, materialID).Scan(
		&b.ID, &b.UserID, &b.MaterialID, &b.Code, &b.Current, &b.StartedAt, &b.EndedAt, &b.Notes, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current batch: %w", err)
	}
	return &b, nil
}

// History devuelve los lotes del material, más recientes primero.
func (r *BatchRepo) History(ctx context.Context, userID, materialID string) ([]*entity.BatchNumber, error) {
	query := `
		SELECT ` + batchColumns + ` FROM batch_numbers
		WHERE material_id = $1 AND user_id = $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, materialID, userID)
	if err != nil {
		return nil, fmt.Errorf("batch history: %w", err)
	}
	defer rows.Close()

	var out []*entity.BatchNumber
	for rows.Next() {
		var b entity.BatchNumber
		if err := rows.Scan(&b.ID, &b.UserID, &b.MaterialID, &b.Code, &b.Current, &b.StartedAt, &b.EndedAt, &b.Notes, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// MaterialsWithBrokenInvariant devuelve materiales con historial pero con cero o
// más de un lote vigente (caída a mitad de RecordNewBatch).
func (r *BatchRepo) MaterialsWithBrokenInvariant(ctx context.Context) ([]string, error) {
	query := `
		SELECT material_id
		FROM batch_numbers
		GROUP BY material_id
		HAVING count(*) FILTER (WHERE is_current) <> 1
		ORDER BY material_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("materials with broken invariant: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan material id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// PromoteLatestBatch deja como vigente únicamente el lote creado más recientemente.
func (r *BatchRepo) PromoteLatestBatch(ctx context.Context, materialID string, at time.Time) error {
	demote := `
		UPDATE batch_numbers SET is_current = false, ended_at = COALESCE(ended_at, $2)
		WHERE material_id = $1 AND is_current
		  AND id <> (SELECT id FROM batch_numbers WHERE material_id = $1 ORDER BY created_at DESC LIMIT 1)`
	if _, err := r.q.Exec(ctx, demote, materialID, at); err != nil {
		return fmt.Errorf("demote stale batches: %w", err)
	}
	promote := `
		UPDATE batch_numbers SET is_current = true, ended_at = NULL
		WHERE id = (SELECT id FROM batch_numbers WHERE material_id = $1 ORDER BY created_at DESC LIMIT 1)`
	if _, err := r.q.Exec(ctx, promote, materialID); err != nil {
		return fmt.Errorf("promote latest batch: %w", err)
	}
	return nil
}

// CreateLink vincula una materia prima con un material de lote.
func (r *BatchRepo) CreateLink(ctx context.Context, l *entity.ResourceBatchLink) error {
	query := `
		INSERT INTO resource_batch_links (id, user_id, resource_id, material_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, l.ID, l.UserID, l.ResourceID, l.MaterialID, l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create resource batch link: %w", err)
	}
	return nil
}

// ListLinksByResource devuelve los vínculos de una materia prima.
func (r *BatchRepo) ListLinksByResource(ctx context.Context, userID, resourceID string) ([]*entity.ResourceBatchLink, error) {
	query := `
		SELECT id, user_id, resource_id, material_id, created_at
		FROM resource_batch_links WHERE user_id = $1 AND resource_id = $2`
	rows, err := r.q.Query(ctx, query, userID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list resource batch links: %w", err)
	}
	defer rows.Close()

	var out []*entity.ResourceBatchLink
	for rows.Next() {
		var l entity.ResourceBatchLink
		if err := rows.Scan(&l.ID, &l.UserID, &l.ResourceID, &l.MaterialID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource batch link: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// DeleteLink elimina el vínculo.
func (r *BatchRepo) DeleteLink(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM resource_batch_links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete resource batch link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
