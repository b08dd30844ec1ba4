package resources

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/infrastructure/memory"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

const testUser = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture() (*memory.Store, *UseCase) {
	store := memory.NewStore()
	uc := NewUseCase(
		memory.NewTxRunner(store),
		memory.NewResourceRepo(store),
		memory.NewStockRecordRepo(store),
		logger.Nop(),
	)
	return store, uc
}

func TestCreateResourceDirectStock(t *testing.T) {
	store, uc := newFixture()

	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "disco zircona", Unit: "disque",
		StockQuantity: d("12"), LowStockThreshold: d("3"),
	})
	require.NoError(t, err)

	require.Len(t, store.StockRecords, 1)
	for _, rec := range store.StockRecords {
		assert.Equal(t, entity.OwnerResource, rec.OwnerKind)
		assert.Equal(t, res.ID, rec.OwnerID)
		assert.True(t, rec.TrackingEnabled)
		assert.True(t, rec.Quantity.Equal(d("12")))
	}
}

func TestCreateResourceWithVariantsIsInert(t *testing.T) {
	store, uc := newFixture()

	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "zircona", Unit: "disque", HasVariants: true,
		StockQuantity: d("99"), // ignorado: el stock vive en las variantes
	})
	require.NoError(t, err)
	require.True(t, res.HasVariants)

	for _, rec := range store.StockRecords {
		assert.False(t, rec.TrackingEnabled)
		assert.True(t, rec.Quantity.IsZero())
	}
}

func TestCreateVariant(t *testing.T) {
	store, uc := newFixture()
	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "zircona", Unit: "disque", HasVariants: true,
	})
	require.NoError(t, err)

	v, err := uc.CreateVariant(context.Background(), testUser, res.ID, dto.CreateVariantRequest{
		Name: "A2 98mm", StockQuantity: d("4"), LowStockThreshold: d("1"),
	})
	require.NoError(t, err)

	var variantRecords int
	for _, rec := range store.StockRecords {
		if rec.OwnerKind == entity.OwnerResourceVariant {
			variantRecords++
			assert.Equal(t, v.ID, rec.OwnerID)
			assert.True(t, rec.TrackingEnabled)
			assert.True(t, rec.Quantity.Equal(d("4")))
		}
	}
	assert.Equal(t, 1, variantRecords)
}

func TestCreateVariantOnDirectResourceRejected(t *testing.T) {
	_, uc := newFixture()
	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "cera", Unit: "gramme", StockQuantity: d("500"),
	})
	require.NoError(t, err)

	_, err = uc.CreateVariant(context.Background(), testUser, res.ID, dto.CreateVariantRequest{
		Name: "no aplica", StockQuantity: d("1"),
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteResourceCascades(t *testing.T) {
	store, uc := newFixture()
	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "zircona", Unit: "disque", HasVariants: true,
	})
	require.NoError(t, err)
	_, err = uc.CreateVariant(context.Background(), testUser, res.ID, dto.CreateVariantRequest{
		Name: "A2", StockQuantity: d("4"),
	})
	require.NoError(t, err)
	_, err = uc.CreateVariant(context.Background(), testUser, res.ID, dto.CreateVariantRequest{
		Name: "B1", StockQuantity: d("2"),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteResource(context.Background(), testUser, res.ID))
	assert.Empty(t, store.Resources)
	assert.Empty(t, store.Variants)
	assert.Empty(t, store.StockRecords)
}

func TestDeleteVariantRemovesRecord(t *testing.T) {
	store, uc := newFixture()
	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "zircona", Unit: "disque", HasVariants: true,
	})
	require.NoError(t, err)
	v, err := uc.CreateVariant(context.Background(), testUser, res.ID, dto.CreateVariantRequest{
		Name: "A2", StockQuantity: d("4"),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteVariant(context.Background(), testUser, res.ID, v.ID))
	assert.Empty(t, store.Variants)
	require.Len(t, store.StockRecords, 1) // solo queda el registro inerte del padre
}

func TestUpdateResourceTogglesVariantMode(t *testing.T) {
	store, uc := newFixture()
	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "cera", Unit: "gramme", StockQuantity: d("500"),
	})
	require.NoError(t, err)

	hasVariants := true
	require.NoError(t, uc.UpdateResource(context.Background(), testUser, res.ID, dto.UpdateResourceRequest{
		Name: "cera", Unit: "gramme", HasVariants: &hasVariants,
	}))

	assert.True(t, store.Resources[res.ID].HasVariants)
	for _, rec := range store.StockRecords {
		assert.False(t, rec.TrackingEnabled)
	}
}

func TestGetResourceIncludesVariants(t *testing.T) {
	_, uc := newFixture()
	res, err := uc.CreateResource(context.Background(), testUser, dto.CreateResourceRequest{
		Name: "zircona", Unit: "disque", HasVariants: true,
	})
	require.NoError(t, err)
	_, err = uc.CreateVariant(context.Background(), testUser, res.ID, dto.CreateVariantRequest{
		Name: "A2", StockQuantity: d("4"), LowStockThreshold: d("1"),
	})
	require.NoError(t, err)

	got, err := uc.GetResource(context.Background(), testUser, res.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "A2", got.Variants[0].Name)
	assert.True(t, got.Variants[0].StockQuantity.Equal(d("4")))
}
