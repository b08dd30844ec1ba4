package repository

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// ResourceRepository CRUD de materias primas y sus variantes.
type ResourceRepository interface {
	Create(ctx context.Context, res *entity.Resource) error
	GetByID(ctx context.Context, userID, id string) (*entity.Resource, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.Resource, error)
	Update(ctx context.Context, res *entity.Resource) error
	Delete(ctx context.Context, userID, id string) error

	CreateVariant(ctx context.Context, v *entity.ResourceVariant) error
	GetVariant(ctx context.Context, id string) (*entity.ResourceVariant, error)
	ListVariants(ctx context.Context, resourceID string) ([]*entity.ResourceVariant, error)
	UpdateVariant(ctx context.Context, v *entity.ResourceVariant) error
	DeleteVariant(ctx context.Context, id string) error
}
