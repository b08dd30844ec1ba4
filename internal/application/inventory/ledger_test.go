package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	dominv "github.com/tu-usuario/labstock-api/internal/domain/inventory"
	"github.com/tu-usuario/labstock-api/internal/infrastructure/memory"
)

const testUser = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedRecord(store *memory.Store, id, qty string, tracked bool) {
	store.StockRecords[id] = &entity.StockRecord{
		ID: id, UserID: testUser,
		OwnerKind: entity.OwnerResource, OwnerID: "res-" + id,
		Quantity: d(qty), TrackingEnabled: tracked, Active: true,
	}
}

func TestApplyDeduct(t *testing.T) {
	store := memory.NewStore()
	seedRecord(store, "sr1", "10", true)
	repo := memory.NewStockRecordRepo(store)

	newQty, applied, err := Apply(context.Background(), repo, dominv.Delta{StockRecordID: "sr1", Quantity: d("-4")}, false)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, newQty.Equal(d("6")))
	assert.True(t, store.StockRecords["sr1"].Quantity.Equal(d("6")))
}

func TestApplyRejectsNegativeResult(t *testing.T) {
	store := memory.NewStore()
	seedRecord(store, "sr1", "3", true)
	repo := memory.NewStockRecordRepo(store)

	_, _, err := Apply(context.Background(), repo, dominv.Delta{StockRecordID: "sr1", Quantity: d("-3.5")}, false)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.StockRecords["sr1"].Quantity.Equal(d("3")), "nada escrito")
}

func TestApplyExactToZero(t *testing.T) {
	store := memory.NewStore()
	seedRecord(store, "sr1", "3", true)
	repo := memory.NewStockRecordRepo(store)

	newQty, applied, err := Apply(context.Background(), repo, dominv.Delta{StockRecordID: "sr1", Quantity: d("-3")}, false)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, newQty.IsZero())
}

func TestApplyUntrackedIsNoop(t *testing.T) {
	store := memory.NewStore()
	seedRecord(store, "sr1", "5", false)
	repo := memory.NewStockRecordRepo(store)

	newQty, applied, err := Apply(context.Background(), repo, dominv.Delta{StockRecordID: "sr1", Quantity: d("-2")}, false)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.True(t, newQty.Equal(d("5")))
	assert.True(t, store.StockRecords["sr1"].Quantity.Equal(d("5")))
}

func TestApplyRestoreNeverFailsOnStock(t *testing.T) {
	store := memory.NewStore()
	seedRecord(store, "sr1", "0", true)
	repo := memory.NewStockRecordRepo(store)

	newQty, applied, err := Apply(context.Background(), repo, dominv.Delta{StockRecordID: "sr1", Quantity: d("2.5")}, true)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, newQty.Equal(d("2.5")))
}

func TestApplyUnknownRecord(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewStockRecordRepo(store)

	_, _, err := Apply(context.Background(), repo, dominv.Delta{StockRecordID: "nope", Quantity: d("-1")}, false)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
