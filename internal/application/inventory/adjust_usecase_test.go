package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/infrastructure/memory"
)

func newAdjustFixture() (*memory.Store, *AdjustStockUseCase) {
	store := memory.NewStore()
	uc := NewAdjustStockUseCase(
		memory.NewTxRunner(store),
		memory.NewCatalogItemRepo(store),
		memory.NewStockRecordRepo(store),
		memory.NewStockMovementRepo(store),
	)
	return store, uc
}

func seedItem(store *memory.Store, id, qty string, tracked bool) {
	store.CatalogItems[id] = &entity.CatalogItem{ID: id, UserID: testUser, Name: id, Active: true}
	store.StockRecords["sr-"+id] = &entity.StockRecord{
		ID: "sr-" + id, UserID: testUser,
		OwnerKind: entity.OwnerCatalogItem, OwnerID: id,
		Quantity: d(qty), TrackingEnabled: tracked, Active: true,
	}
}

func TestAdjustAddsAndSubtracts(t *testing.T) {
	store, uc := newAdjustFixture()
	seedItem(store, "corona", "10", true)

	out, err := uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "corona", Quantity: d("5"), Notes: "recuento físico",
	})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.True(t, out.NewQuantity.Equal(d("15")))

	out, err = uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "corona", Quantity: d("-3"),
	})
	require.NoError(t, err)
	assert.True(t, out.NewQuantity.Equal(d("12")))

	// cada ajuste deja su movimiento de auditoría
	assert.Len(t, store.Movements, 2)
	for _, m := range store.Movements {
		assert.Equal(t, entity.MovementAdjust, m.Type)
	}
}

func TestAdjustRejectsBelowZero(t *testing.T) {
	store, uc := newAdjustFixture()
	seedItem(store, "corona", "2", true)

	_, err := uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "corona", Quantity: d("-5"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.StockRecords["sr-corona"].Quantity.Equal(d("2")))
	assert.Empty(t, store.Movements, "el movimiento no sobrevive al rollback")
}

func TestAdjustUntrackedIsNoop(t *testing.T) {
	store, uc := newAdjustFixture()
	seedItem(store, "corona", "7", false)

	out, err := uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "corona", Quantity: d("3"),
	})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.True(t, out.NewQuantity.Equal(d("7")))
	assert.Empty(t, store.Movements)
}

func TestAdjustValidation(t *testing.T) {
	_, uc := newAdjustFixture()

	_, err := uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "", Quantity: d("1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "corona", Quantity: d("0"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Adjust(context.Background(), testUser, testUser, dto.AdjustStockRequest{
		CatalogItemID: "fantasma", Quantity: d("1"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStockScan(t *testing.T) {
	store := memory.NewStore()
	uc := NewLowStockUseCase(memory.NewStockRecordRepo(store))

	seedItem(store, "corona", "1", true) // umbral 0 por defecto: 1 > 0, fuera
	store.StockRecords["sr-corona"].LowStockThreshold = d("2")

	store.Resources["cera"] = &entity.Resource{ID: "cera", UserID: testUser, Name: "cera", Active: true}
	store.StockRecords["sr-cera"] = &entity.StockRecord{
		ID: "sr-cera", UserID: testUser,
		OwnerKind: entity.OwnerResource, OwnerID: "cera",
		Quantity: d("50"), LowStockThreshold: d("10"), TrackingEnabled: true, Active: true,
	}

	// padre con variantes: inerte, nunca alerta aunque esté a cero
	store.Resources["zircona"] = &entity.Resource{ID: "zircona", UserID: testUser, Name: "zircona", HasVariants: true, Active: true}
	store.StockRecords["sr-zircona"] = &entity.StockRecord{
		ID: "sr-zircona", UserID: testUser,
		OwnerKind: entity.OwnerResource, OwnerID: "zircona",
		Quantity: d("0"), TrackingEnabled: false, Active: true,
	}
	store.Variants["zircona-a2"] = &entity.ResourceVariant{ID: "zircona-a2", ResourceID: "zircona", Name: "A2", Active: true}
	store.StockRecords["sr-zircona-a2"] = &entity.StockRecord{
		ID: "sr-zircona-a2", UserID: testUser,
		OwnerKind: entity.OwnerResourceVariant, OwnerID: "zircona-a2",
		Quantity: d("1"), LowStockThreshold: d("1"), TrackingEnabled: true, Active: true,
	}

	alerts, err := uc.Scan(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byID := map[string]dto.LowStockAlertDTO{}
	for _, a := range alerts {
		byID[a.StockRecordID] = a
	}
	assert.Contains(t, byID, "sr-corona")
	assert.Contains(t, byID, "sr-zircona-a2")
	assert.Equal(t, "zircona / A2", byID["sr-zircona-a2"].OwnerName)

	n, err := uc.Count(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
