package catalog

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

type fixture struct {
	store *memory.Store
	uc    *UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	uc := NewUseCase(
		memory.NewTxRunner(store),
		memory.NewCatalogItemRepo(store),
		memory.NewBOMRepo(store),
		memory.NewResourceRepo(store),
		memory.NewStockRecordRepo(store),
		logger.Nop(),
	)
	return &fixture{store: store, uc: uc}
}

func (f *fixture) addResource(id string) {
	f.store.Resources[id] = &entity.Resource{ID: id, UserID: testUser, Name: id, Active: true}
}

func (f *fixture) createItem(t *testing.T, name string, tracked bool) *dto.CatalogItemDTO {
	t.Helper()
	item, err := f.uc.CreateItem(context.Background(), testUser, dto.CreateCatalogItemRequest{
		Name:              name,
		DefaultUnit:       "unité",
		TrackStock:        tracked,
		StockQuantity:     d("10"),
		LowStockThreshold: d("2"),
	})
	require.NoError(t, err)
	return item
}

func TestCreateItemCreatesStockRecord(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "corona", true)

	require.Len(t, f.store.StockRecords, 1)
	for _, rec := range f.store.StockRecords {
		assert.Equal(t, entity.OwnerCatalogItem, rec.OwnerKind)
		assert.Equal(t, item.ID, rec.OwnerID)
		assert.True(t, rec.TrackingEnabled)
		assert.True(t, rec.Quantity.Equal(d("10")))
	}
	assert.True(t, item.TrackStock)
}

func TestCreateItemValidation(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateItem(context.Background(), testUser, dto.CreateCatalogItemRequest{Name: ""})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateItem(context.Background(), testUser, dto.CreateCatalogItemRequest{
		Name: "x", StockQuantity: d("-1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddBOMEdgeRejectedWhenTracking(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", true)

	_, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Empty(t, f.store.BOMEdges)
}

func TestEnableTrackingRejectedWithBOM(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)

	_, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.NoError(t, err)

	err = f.uc.SetTracking(context.Background(), testUser, item.ID, true)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestTrackingToggleWithoutBOM(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "corona", false)

	require.NoError(t, f.uc.SetTracking(context.Background(), testUser, item.ID, true))
	got, err := f.uc.GetItem(context.Background(), testUser, item.ID)
	require.NoError(t, err)
	assert.True(t, got.TrackStock)

	require.NoError(t, f.uc.SetTracking(context.Background(), testUser, item.ID, false))
	got, err = f.uc.GetItem(context.Background(), testUser, item.ID)
	require.NoError(t, err)
	assert.False(t, got.TrackStock)
}

func TestAddBOMEdgeDuplicateRejected(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)

	_, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.NoError(t, err)

	_, err = f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("14"),
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, f.store.BOMEdges, 1)
}

func TestAddBOMEdgeValidation(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)

	_, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("0"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "fantasma", QuantityNeeded: d("28"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateBOMEdge(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)

	edge, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.UpdateBOMEdge(context.Background(), testUser, edge.ID, dto.UpdateBOMEdgeRequest{
		QuantityNeeded: d("14"),
	}))
	assert.True(t, f.store.BOMEdges[edge.ID].QuantityNeeded.Equal(d("14")))

	err = f.uc.UpdateBOMEdge(context.Background(), testUser, edge.ID, dto.UpdateBOMEdgeRequest{
		QuantityNeeded: d("-1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveBOMEdgeThenEnableTracking(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)

	edge, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveBOMEdge(context.Background(), testUser, edge.ID))
	// sin aristas, el seguimiento directo vuelve a estar permitido
	require.NoError(t, f.uc.SetTracking(context.Background(), testUser, item.ID, true))
}

func TestDeleteItemCascades(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)
	_, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteItem(context.Background(), testUser, item.ID))
	assert.Empty(t, f.store.CatalogItems)
	assert.Empty(t, f.store.BOMEdges)
	assert.Empty(t, f.store.StockRecords)
}

func TestGetItemIncludesBOM(t *testing.T) {
	f := newFixture()
	f.addResource("disco")
	item := f.createItem(t, "corona", false)
	_, err := f.uc.AddBOMEdge(context.Background(), testUser, item.ID, dto.AddBOMEdgeRequest{
		ResourceID: "disco", QuantityNeeded: d("28"),
	})
	require.NoError(t, err)

	got, err := f.uc.GetItem(context.Background(), testUser, item.ID)
	require.NoError(t, err)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "disco", got.Resources[0].ResourceID)
	assert.Equal(t, "disco", got.Resources[0].ResourceName)
	assert.True(t, got.Resources[0].QuantityNeeded.Equal(d("28")))
}

func TestUpdateItemSettings(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "corona", true)

	inactive := false
	require.NoError(t, f.uc.UpdateItem(context.Background(), testUser, item.ID, dto.UpdateCatalogItemRequest{
		Name:              "corona zircona",
		DefaultUnit:       "pièce",
		LowStockThreshold: d("5"),
		Active:            &inactive,
	}))

	got := f.store.CatalogItems[item.ID]
	assert.Equal(t, "corona zircona", got.Name)
	assert.False(t, got.Active)
	for _, rec := range f.store.StockRecords {
		assert.True(t, rec.LowStockThreshold.Equal(d("5")))
		assert.False(t, rec.Active)
	}
}
