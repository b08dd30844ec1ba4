package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// BatchRepository marcas, materiales y números de lote.
type BatchRepository interface {
	CreateBrand(ctx context.Context, b *entity.BatchBrand) error
	ListBrands(ctx context.Context, userID string) ([]*entity.BatchBrand, error)
	UpdateBrand(ctx context.Context, b *entity.BatchBrand) error
	DeleteBrand(ctx context.Context, userID, id string) error

	CreateMaterial(ctx context.Context, m *entity.BatchMaterial) error
	GetMaterial(ctx context.Context, userID, id string) (*entity.BatchMaterial, error)
	ListMaterials(ctx context.Context, userID string) ([]*entity.BatchMaterial, error)
	UpdateMaterial(ctx context.Context, m *entity.BatchMaterial) error
	SetMaterialFavorite(ctx context.Context, userID, id string, favorite bool) error
	DeleteMaterial(ctx context.Context, userID, id string) error

	// CloseCurrentBatch cierra el lote vigente del material (ended_at, is_current=false)
	// y devuelve cuántas filas cerró. Debe ejecutarse en la misma tx que InsertBatch.
	CloseCurrentBatch(ctx context.Context, materialID string, at time.Time) (int, error)
	InsertBatch(ctx context.Context, b *entity.BatchNumber) error
	GetCurrentBatch(ctx context.Context, materialID string) (*entity.BatchNumber, error)
	History(ctx context.Context, userID, materialID string) ([]*entity.BatchNumber, error)
	// MaterialsWithBrokenInvariant devuelve materiales con cero o más de un lote vigente
	// (reconciliación tras caída a mitad de RecordNewBatch).
	MaterialsWithBrokenInvariant(ctx context.Context) ([]string, error)
	// PromoteLatestBatch deja como vigente únicamente el lote creado más recientemente.
	PromoteLatestBatch(ctx context.Context, materialID string, at time.Time) error

	CreateLink(ctx context.Context, l *entity.ResourceBatchLink) error
	ListLinksByResource(ctx context.Context, userID, resourceID string) ([]*entity.ResourceBatchLink, error)
	DeleteLink(ctx context.Context, userID, id string) error
}
