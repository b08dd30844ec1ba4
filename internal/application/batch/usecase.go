package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

// UseCase trazabilidad de lotes: marcas, materiales y el historial de números de
// lote de cada material, con exactamente un lote vigente por material.
type UseCase struct {
	txRunner  TxRunner
	batchRepo repository.BatchRepository
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, batchRepo repository.BatchRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, batchRepo: batchRepo, log: log}
}

// RecordNewBatch registra el número de lote recién abierto de un material: cierra
// el vigente (si lo hay) e inserta el nuevo como vigente, en una sola transacción.
func (uc *UseCase) RecordNewBatch(ctx context.Context, userID, materialID string, in dto.RecordBatchRequest) (*dto.BatchNumberDTO, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	b := &entity.BatchNumber{
		ID:         uuid.New().String(),
		UserID:     userID,
		MaterialID: materialID,
		Code:       in.Code,
		Current:    true,
		StartedAt:  now,
		Notes:      in.Notes,
		CreatedAt:  now,
	}
	err := uc.txRunner.RunBatch(ctx, func(batchRepo repository.BatchRepository) error {
		m, err := batchRepo.GetMaterial(ctx, userID, materialID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		closed, err := batchRepo.CloseCurrentBatch(ctx, materialID, now)
		if err != nil {
			return err
		}
		if closed > 1 {
			uc.log.Warn().Str("material_id", materialID).Int("closed", closed).Msg("más de un lote vigente cerrado")
		}
		return batchRepo.InsertBatch(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("material_id", materialID).Str("code", in.Code).Msg("lote registrado")
	return toBatchDTO(b), nil
}

// CurrentBatch devuelve el lote vigente del material, o ErrNotFound si no hay ninguno.
func (uc *UseCase) CurrentBatch(ctx context.Context, userID, materialID string) (*dto.BatchNumberDTO, error) {
	m, err := uc.batchRepo.GetMaterial(ctx, userID, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	b, err := uc.batchRepo.GetCurrentBatch(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return toBatchDTO(b), nil
}

// History devuelve los lotes del material, más recientes primero.
func (uc *UseCase) History(ctx context.Context, userID, materialID string) ([]dto.BatchNumberDTO, error) {
	m, err := uc.batchRepo.GetMaterial(ctx, userID, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	bs, err := uc.batchRepo.History(ctx, userID, materialID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchNumberDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, *toBatchDTO(b))
	}
	return out, nil
}

// Reconcile repara materiales cuyo historial quedó sin lote vigente o con varios
// (caída a mitad de un RecordNewBatch). Se ejecuta al arrancar: promueve el lote
// más reciente de cada material afectado. Devuelve cuántos materiales reparó.
func (uc *UseCase) Reconcile(ctx context.Context) (int, error) {
	broken, err := uc.batchRepo.MaterialsWithBrokenInvariant(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	for _, materialID := range broken {
		mid := materialID
		err := uc.txRunner.RunBatch(ctx, func(batchRepo repository.BatchRepository) error {
			return batchRepo.PromoteLatestBatch(ctx, mid, now)
		})
		if err != nil {
			return 0, err
		}
		uc.log.Warn().Str("material_id", mid).Msg("historial de lotes reconciliado")
	}
	return len(broken), nil
}

// CreateBrand da de alta una marca.
func (uc *UseCase) CreateBrand(ctx context.Context, userID string, in dto.BrandRequest) (*entity.BatchBrand, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	b := &entity.BatchBrand{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.batchRepo.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBrands devuelve las marcas del usuario.
func (uc *UseCase) ListBrands(ctx context.Context, userID string) ([]*entity.BatchBrand, error) {
	return uc.batchRepo.ListBrands(ctx, userID)
}

// DeleteBrand elimina la marca y sus materiales.
func (uc *UseCase) DeleteBrand(ctx context.Context, userID, id string) error {
	return uc.batchRepo.DeleteBrand(ctx, userID, id)
}

// CreateMaterial da de alta un material de lote bajo una marca.
func (uc *UseCase) CreateMaterial(ctx context.Context, userID string, in dto.MaterialRequest) (*entity.BatchMaterial, error) {
	if in.Name == "" || in.BrandID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.BatchMaterial{
		ID:           uuid.New().String(),
		UserID:       userID,
		BrandID:      in.BrandID,
		Name:         in.Name,
		Description:  in.Description,
		MaterialType: in.MaterialType,
		Favorite:     in.Favorite,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.batchRepo.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMaterials devuelve los materiales del usuario.
func (uc *UseCase) ListMaterials(ctx context.Context, userID string) ([]*entity.BatchMaterial, error) {
	return uc.batchRepo.ListMaterials(ctx, userID)
}

// SetFavorite marca o desmarca un material como favorito.
func (uc *UseCase) SetFavorite(ctx context.Context, userID, id string, favorite bool) error {
	return uc.batchRepo.SetMaterialFavorite(ctx, userID, id, favorite)
}

// DeleteMaterial elimina el material y su historial de lotes.
func (uc *UseCase) DeleteMaterial(ctx context.Context, userID, id string) error {
	return uc.batchRepo.DeleteMaterial(ctx, userID, id)
}

// LinkResource vincula una materia prima del stock con un material de lote.
func (uc *UseCase) LinkResource(ctx context.Context, userID string, in dto.ResourceBatchLinkRequest) (*entity.ResourceBatchLink, error) {
	if in.ResourceID == "" || in.MaterialID == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.batchRepo.GetMaterial(ctx, userID, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	l := &entity.ResourceBatchLink{
		ID:         uuid.New().String(),
		UserID:     userID,
		ResourceID: in.ResourceID,
		MaterialID: in.MaterialID,
		CreatedAt:  time.Now(),
	}
	if err := uc.batchRepo.CreateLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLinks devuelve los vínculos de una materia prima.
func (uc *UseCase) ListLinks(ctx context.Context, userID, resourceID string) ([]*entity.ResourceBatchLink, error) {
	return uc.batchRepo.ListLinksByResource(ctx, userID, resourceID)
}

// UnlinkResource elimina un vínculo.
func (uc *UseCase) UnlinkResource(ctx context.Context, userID, id string) error {
	return uc.batchRepo.DeleteLink(ctx, userID, id)
}

func toBatchDTO(b *entity.BatchNumber) *dto.BatchNumberDTO {
	d := &dto.BatchNumberDTO{
		ID:         b.ID,
		MaterialID: b.MaterialID,
		Code:       b.Code,
		Current:    b.Current,
		StartedAt:  b.StartedAt.Format(time.RFC3339),
		Notes:      b.Notes,
	}
	if b.EndedAt != nil {
		s := b.EndedAt.Format(time.RFC3339)
		d.EndedAt = &s
	}
	return d
}
