package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/infrastructure/memory"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

const testUser = "user-1"

func newFixture() (*memory.Store, *UseCase) {
	store := memory.NewStore()
	uc := NewUseCase(memory.NewTxRunner(store), memory.NewBatchRepo(store), logger.Nop())
	return store, uc
}

func seedMaterial(t *testing.T, uc *UseCase) *entity.BatchMaterial {
	t.Helper()
	brand, err := uc.CreateBrand(context.Background(), testUser, dto.BrandRequest{Name: "Ivoclar"})
	require.NoError(t, err)
	m, err := uc.CreateMaterial(context.Background(), testUser, dto.MaterialRequest{
		BrandID: brand.ID, Name: "IPS e.max", MaterialType: "céramique",
	})
	require.NoError(t, err)
	return m
}

func currentBatches(store *memory.Store, materialID string) []*entity.BatchNumber {
	var out []*entity.BatchNumber
	for _, b := range store.Batches {
		if b.MaterialID == materialID && b.Current {
			out = append(out, b)
		}
	}
	return out
}

func TestRecordNewBatchReplacesCurrent(t *testing.T) {
	store, uc := newFixture()
	m := seedMaterial(t, uc)

	first, err := uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: "L-001"})
	require.NoError(t, err)
	assert.True(t, first.Current)

	second, err := uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: "L-002"})
	require.NoError(t, err)
	assert.True(t, second.Current)

	// exactamente un lote vigente; el anterior cerrado con ended_at
	curr := currentBatches(store, m.ID)
	require.Len(t, curr, 1)
	assert.Equal(t, "L-002", curr[0].Code)
	assert.NotNil(t, store.Batches[first.ID].EndedAt)
	assert.Nil(t, store.Batches[second.ID].EndedAt)
}

func TestRecordNewBatchValidation(t *testing.T) {
	_, uc := newFixture()
	m := seedMaterial(t, uc)

	_, err := uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: ""})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordNewBatch(context.Background(), testUser, "fantasma", dto.RecordBatchRequest{Code: "L-001"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCurrentBatch(t *testing.T) {
	_, uc := newFixture()
	m := seedMaterial(t, uc)

	_, err := uc.CurrentBatch(context.Background(), testUser, m.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: "L-001"})
	require.NoError(t, err)

	got, err := uc.CurrentBatch(context.Background(), testUser, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "L-001", got.Code)
}

func TestHistoryNewestFirst(t *testing.T) {
	store, uc := newFixture()
	m := seedMaterial(t, uc)

	b1, err := uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: "L-001"})
	require.NoError(t, err)
	store.Batches[b1.ID].CreatedAt = time.Now().Add(-time.Hour)

	_, err = uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: "L-002"})
	require.NoError(t, err)

	hist, err := uc.History(context.Background(), testUser, m.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "L-002", hist[0].Code)
	assert.Equal(t, "L-001", hist[1].Code)
}

func TestReconcilePromotesLatest(t *testing.T) {
	store, uc := newFixture()
	m := seedMaterial(t, uc)

	// historial corrupto: dos lotes vigentes a la vez (caída a mitad de un registro)
	now := time.Now()
	store.Batches["b1"] = &entity.BatchNumber{
		ID: "b1", UserID: testUser, MaterialID: m.ID, Code: "L-001",
		Current: true, StartedAt: now.Add(-2 * time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}
	store.Batches["b2"] = &entity.BatchNumber{
		ID: "b2", UserID: testUser, MaterialID: m.ID, Code: "L-002",
		Current: true, StartedAt: now.Add(-time.Hour), CreatedAt: now.Add(-time.Hour),
	}

	repaired, err := uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	curr := currentBatches(store, m.ID)
	require.Len(t, curr, 1)
	assert.Equal(t, "L-002", curr[0].Code)
	assert.NotNil(t, store.Batches["b1"].EndedAt)
}

func TestReconcileNoCurrent(t *testing.T) {
	store, uc := newFixture()
	m := seedMaterial(t, uc)

	now := time.Now()
	ended := now.Add(-time.Hour)
	store.Batches["b1"] = &entity.BatchNumber{
		ID: "b1", UserID: testUser, MaterialID: m.ID, Code: "L-001",
		Current: false, StartedAt: now.Add(-2 * time.Hour), EndedAt: &ended, CreatedAt: now.Add(-2 * time.Hour),
	}

	repaired, err := uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	curr := currentBatches(store, m.ID)
	require.Len(t, curr, 1)
	assert.Nil(t, curr[0].EndedAt)
}

func TestReconcileHealthyIsNoop(t *testing.T) {
	_, uc := newFixture()
	m := seedMaterial(t, uc)
	_, err := uc.RecordNewBatch(context.Background(), testUser, m.ID, dto.RecordBatchRequest{Code: "L-001"})
	require.NoError(t, err)

	repaired, err := uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestFavoriteToggle(t *testing.T) {
	store, uc := newFixture()
	m := seedMaterial(t, uc)

	require.NoError(t, uc.SetFavorite(context.Background(), testUser, m.ID, true))
	assert.True(t, store.Materials[m.ID].Favorite)

	require.NoError(t, uc.SetFavorite(context.Background(), testUser, m.ID, false))
	assert.False(t, store.Materials[m.ID].Favorite)
}

func TestResourceBatchLinks(t *testing.T) {
	_, uc := newFixture()
	m := seedMaterial(t, uc)

	l, err := uc.LinkResource(context.Background(), testUser, dto.ResourceBatchLinkRequest{
		ResourceID: "res-1", MaterialID: m.ID,
	})
	require.NoError(t, err)

	links, err := uc.ListLinks(context.Background(), testUser, "res-1")
	require.NoError(t, err)
	require.Len(t, links, 1)

	require.NoError(t, uc.UnlinkResource(context.Background(), testUser, l.ID))
	links, err = uc.ListLinks(context.Background(), testUser, "res-1")
	require.NoError(t, err)
	assert.Empty(t, links)
}
