package resources

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

// UseCase materias primas y variantes. Cada materia prima tiene su registro de
// stock; si declara variantes, ese registro queda inerte (sin seguimiento) y el
// stock real vive en el registro de cada variante.
type UseCase struct {
	txRunner     TxRunner
	resourceRepo repository.ResourceRepository
	stockRepo    repository.StockRecordRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, resourceRepo: resourceRepo, stockRepo: stockRepo, log: log}
}

// CreateResource da de alta la materia prima con su registro de stock. Con
// HasVariants el registro nace inerte y con cantidad cero: el stock se declara
// variante a variante.
func (uc *UseCase) CreateResource(ctx context.Context, userID string, in dto.CreateResourceRequest) (*dto.ResourceDTO, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockQuantity.IsNegative() || in.LowStockThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	res := &entity.Resource{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
		HasVariants: in.HasVariants,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	qty := in.StockQuantity
	if in.HasVariants {
		qty = decimal.Zero // el stock vive en las variantes
	}
	rec := &entity.StockRecord{
		ID:                uuid.New().String(),
		UserID:            userID,
		OwnerKind:         entity.OwnerResource,
		OwnerID:           res.ID,
		Quantity:          qty,
		LowStockThreshold: in.LowStockThreshold,
		TrackingEnabled:   !in.HasVariants,
		UnitLabel:         in.Unit,
		Active:            true,
		UpdatedAt:         now,
	}

	err := uc.txRunner.RunResources(ctx, func(resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository) error {
		if err := resourceRepo.Create(ctx, res); err != nil {
			return err
		}
		return stockRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("resource_id", res.ID).Bool("has_variants", res.HasVariants).Msg("materia prima creada")
	return uc.toDTO(res, rec, nil), nil
}

// UpdateResource actualiza los datos y ajustes de la materia prima. Cambiar
// HasVariants conmuta el seguimiento del registro padre (inerte <-> directo).
func (uc *UseCase) UpdateResource(ctx context.Context, userID, id string, in dto.UpdateResourceRequest) error {
	if in.Name == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunResources(ctx, func(resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository) error {
		res, err := resourceRepo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		res.Name = in.Name
		res.Description = in.Description
		res.Unit = in.Unit
		if in.HasVariants != nil {
			res.HasVariants = *in.HasVariants
		}
		if in.Active != nil {
			res.Active = *in.Active
		}
		res.UpdatedAt = time.Now()
		if err := resourceRepo.Update(ctx, res); err != nil {
			return err
		}

		rec, err := stockRepo.GetByOwner(ctx, entity.OwnerResource, res.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		rec.LowStockThreshold = in.LowStockThreshold
		rec.UnitLabel = in.Unit
		rec.TrackingEnabled = !res.HasVariants
		rec.Active = res.Active
		return stockRepo.UpdateSettings(ctx, rec)
	})
}

// DeleteResource elimina la materia prima, sus variantes y todos sus registros de stock.
func (uc *UseCase) DeleteResource(ctx context.Context, userID, id string) error {
	err := uc.txRunner.RunResources(ctx, func(resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository) error {
		variants, err := resourceRepo.ListVariants(ctx, id)
		if err != nil {
			return err
		}
		if err := resourceRepo.Delete(ctx, userID, id); err != nil {
			return err
		}
		for _, v := range variants {
			if err := stockRepo.DeleteByOwner(ctx, entity.OwnerResourceVariant, v.ID); err != nil {
				return err
			}
		}
		return stockRepo.DeleteByOwner(ctx, entity.OwnerResource, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("resource_id", id).Msg("materia prima eliminada")
	return nil
}

// CreateVariant da de alta una variante con su registro de stock. Solo sobre
// materias primas declaradas con variantes.
func (uc *UseCase) CreateVariant(ctx context.Context, userID, resourceID string, in dto.CreateVariantRequest) (*dto.ResourceVariantDTO, error) {
	if in.Name == "" || in.StockQuantity.IsNegative() || in.LowStockThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.resourceRepo.GetByID(ctx, userID, resourceID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if !res.HasVariants {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	v := &entity.ResourceVariant{
		ID:         uuid.New().String(),
		ResourceID: res.ID,
		Name:       in.Name,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	rec := &entity.StockRecord{
		ID:                uuid.New().String(),
		UserID:            userID,
		OwnerKind:         entity.OwnerResourceVariant,
		OwnerID:           v.ID,
		Quantity:          in.StockQuantity,
		LowStockThreshold: in.LowStockThreshold,
		TrackingEnabled:   true,
		UnitLabel:         res.Unit,
		Active:            true,
		UpdatedAt:         now,
	}
	err = uc.txRunner.RunResources(ctx, func(resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository) error {
		if err := resourceRepo.CreateVariant(ctx, v); err != nil {
			return err
		}
		return stockRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResourceVariantDTO{
		ID:                v.ID,
		Name:              v.Name,
		StockQuantity:     rec.Quantity,
		LowStockThreshold: rec.LowStockThreshold,
		Active:            v.Active,
	}, nil
}

// UpdateVariant actualiza nombre y ajustes de stock de la variante.
func (uc *UseCase) UpdateVariant(ctx context.Context, userID, resourceID, variantID string, in dto.CreateVariantRequest) error {
	if in.Name == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunResources(ctx, func(resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository) error {
		res, err := resourceRepo.GetByID(ctx, userID, resourceID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		v, err := resourceRepo.GetVariant(ctx, variantID)
		if err != nil {
			return err
		}
		if v == nil || v.ResourceID != res.ID {
			return domain.ErrNotFound
		}
		v.Name = in.Name
		v.UpdatedAt = time.Now()
		if err := resourceRepo.UpdateVariant(ctx, v); err != nil {
			return err
		}

		rec, err := stockRepo.GetByOwner(ctx, entity.OwnerResourceVariant, v.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		rec.LowStockThreshold = in.LowStockThreshold
		return stockRepo.UpdateSettings(ctx, rec)
	})
}

// DeleteVariant elimina la variante y su registro de stock.
func (uc *UseCase) DeleteVariant(ctx context.Context, userID, resourceID, variantID string) error {
	return uc.txRunner.RunResources(ctx, func(resourceRepo repository.ResourceRepository, stockRepo repository.StockRecordRepository) error {
		res, err := resourceRepo.GetByID(ctx, userID, resourceID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		v, err := resourceRepo.GetVariant(ctx, variantID)
		if err != nil {
			return err
		}
		if v == nil || v.ResourceID != res.ID {
			return domain.ErrNotFound
		}
		if err := resourceRepo.DeleteVariant(ctx, v.ID); err != nil {
			return err
		}
		return stockRepo.DeleteByOwner(ctx, entity.OwnerResourceVariant, v.ID)
	})
}

// GetResource devuelve la materia prima con su stock y sus variantes.
func (uc *UseCase) GetResource(ctx context.Context, userID, id string) (*dto.ResourceDTO, error) {
	res, err := uc.resourceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	rec, err := uc.stockRepo.GetByOwner(ctx, entity.OwnerResource, res.ID)
	if err != nil {
		return nil, err
	}
	var variants []dto.ResourceVariantDTO
	if res.HasVariants {
		vs, err := uc.resourceRepo.ListVariants(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		for _, v := range vs {
			vrec, err := uc.stockRepo.GetByOwner(ctx, entity.OwnerResourceVariant, v.ID)
			if err != nil {
				return nil, err
			}
			vd := dto.ResourceVariantDTO{ID: v.ID, Name: v.Name, Active: v.Active}
			if vrec != nil {
				vd.StockQuantity = vrec.Quantity
				vd.LowStockThreshold = vrec.LowStockThreshold
			}
			variants = append(variants, vd)
		}
	}
	return uc.toDTO(res, rec, variants), nil
}

// ListResources devuelve las materias primas del usuario con su stock.
func (uc *UseCase) ListResources(ctx context.Context, userID string, page dto.PageRequest) ([]dto.ResourceDTO, error) {
	resList, err := uc.resourceRepo.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ResourceDTO, 0, len(resList))
	for _, res := range resList {
		rec, err := uc.stockRepo.GetByOwner(ctx, entity.OwnerResource, res.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *uc.toDTO(res, rec, nil))
	}
	return out, nil
}

func (uc *UseCase) toDTO(res *entity.Resource, rec *entity.StockRecord, variants []dto.ResourceVariantDTO) *dto.ResourceDTO {
	d := &dto.ResourceDTO{
		ID:          res.ID,
		Name:        res.Name,
		Description: res.Description,
		Unit:        res.Unit,
		HasVariants: res.HasVariants,
		Active:      res.Active,
		Variants:    variants,
	}
	if rec != nil {
		d.StockQuantity = rec.Quantity
		d.LowStockThreshold = rec.LowStockThreshold
	}
	return d
}
