package fulfillment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/application/inventory"
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
	resolver := inventory.NewConsumptionResolver(
		memory.NewCatalogItemRepo(store),
		memory.NewBOMRepo(store),
		memory.NewResourceRepo(store),
		memory.NewStockRecordRepo(store),
	)
	uc := NewUseCase(memory.NewTxRunner(store), resolver, memory.NewDeliveryNoteRepo(store), logger.Nop())
	return &fixture{store: store, uc: uc}
}

func (f *fixture) addItem(id string, tracked bool, qty string) {
	f.store.CatalogItems[id] = &entity.CatalogItem{ID: id, UserID: testUser, Name: id, Active: true}
	f.store.StockRecords["sr-"+id] = &entity.StockRecord{
		ID: "sr-" + id, UserID: testUser,
		OwnerKind: entity.OwnerCatalogItem, OwnerID: id,
		Quantity: d(qty), TrackingEnabled: tracked, Active: true,
	}
}

func (f *fixture) addResource(id string, hasVariants bool, qty string) {
	f.store.Resources[id] = &entity.Resource{ID: id, UserID: testUser, Name: id, HasVariants: hasVariants, Active: true}
	f.store.StockRecords["sr-"+id] = &entity.StockRecord{
		ID: "sr-" + id, UserID: testUser,
		OwnerKind: entity.OwnerResource, OwnerID: id,
		Quantity: d(qty), TrackingEnabled: !hasVariants, Active: true,
	}
}

func (f *fixture) addVariant(id, resourceID, qty string) {
	f.store.Variants[id] = &entity.ResourceVariant{ID: id, ResourceID: resourceID, Name: id, Active: true}
	f.store.StockRecords["sr-"+id] = &entity.StockRecord{
		ID: "sr-" + id, UserID: testUser,
		OwnerKind: entity.OwnerResourceVariant, OwnerID: id,
		Quantity: d(qty), TrackingEnabled: true, Active: true,
	}
}

func (f *fixture) addEdge(id, itemID, resourceID, needed string) {
	f.store.BOMEdges[id] = &entity.CatalogItemResource{
		ID: id, CatalogItemID: itemID, ResourceID: resourceID, QuantityNeeded: d(needed),
	}
}

func (f *fixture) quantity(t *testing.T, recordID string) decimal.Decimal {
	t.Helper()
	rec, ok := f.store.StockRecords[recordID]
	require.True(t, ok, "registro %s no existe", recordID)
	return rec.Quantity
}

func noteRequest(items ...dto.NoteItemRequest) dto.CreateDeliveryNoteRequest {
	return dto.CreateDeliveryNoteRequest{DentistID: "dentist-1", Items: items}
}

func TestCreateDeductsDirectStock(t *testing.T) {
	f := newFixture()
	f.addItem("corona", true, "10")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("2")}))
	require.NoError(t, err)
	require.NotNil(t, note)

	assert.True(t, f.quantity(t, "sr-corona").Equal(d("8")))
	assert.Equal(t, entity.NoteStatusPending, note.Status)

	require.Len(t, f.store.Movements, 1)
	for _, m := range f.store.Movements {
		assert.Equal(t, entity.MovementOut, m.Type)
		assert.Equal(t, note.ID, m.DeliveryNoteID)
		assert.True(t, m.Quantity.Equal(d("-2")))
		assert.Nil(t, m.RestoredAt)
	}
}

func TestCreateFansOutThroughBOM(t *testing.T) {
	f := newFixture()
	f.addItem("bloc", false, "0")
	f.addResource("resina", false, "500")
	// 0.2 blocs consumen 1 unidad de resina: vender 28 consume 28/0.2 = 140
	f.addEdge("edge-1", "bloc", "resina", "0.2")

	_, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "bloc", Quantity: d("28")}))
	require.NoError(t, err)

	assert.True(t, f.quantity(t, "sr-resina").Equal(d("360")),
		"esperado 360, quedó %s", f.quantity(t, "sr-resina"))
	// el registro directo del artículo no se toca (seguimiento desactivado)
	assert.True(t, f.quantity(t, "sr-bloc").Equal(d("0")))
}

func TestCreateFractionalConsumption(t *testing.T) {
	f := newFixture()
	f.addItem("corona", false, "0")
	f.addResource("disco", false, "5")
	// 28 coronas por disco: una corona consume 1/28, sin redondear
	f.addEdge("edge-1", "corona", "disco", "28")

	_, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("1")}))
	require.NoError(t, err)

	assert.Equal(t, "4.9642857142857143", f.quantity(t, "sr-disco").String())
}

func TestCreateInsufficientStockRollsBack(t *testing.T) {
	f := newFixture()
	f.addItem("protese", false, "0")
	f.addResource("cera", false, "100")
	f.addResource("yeso", false, "0")
	f.addEdge("edge-1", "protese", "cera", "1")
	f.addEdge("edge-2", "protese", "yeso", "1")

	_, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "protese", Quantity: d("3")}))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// nada se escribió: ni bon, ni movimientos, ni deducción parcial sobre cera
	assert.Empty(t, f.store.Notes)
	assert.Empty(t, f.store.Movements)
	assert.True(t, f.quantity(t, "sr-cera").Equal(d("100")))
	assert.True(t, f.quantity(t, "sr-yeso").Equal(d("0")))
}

func TestCreateUntrackedItemWithoutBOM(t *testing.T) {
	f := newFixture()
	f.addItem("servicio", false, "0")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "servicio", Quantity: d("4")}))
	require.NoError(t, err)

	assert.Len(t, f.store.Notes, 1)
	assert.Empty(t, f.store.Movements)
	require.NotNil(t, note)
}

func TestCreateVariantSelection(t *testing.T) {
	f := newFixture()
	f.addItem("corona", false, "0")
	f.addResource("zircona", true, "0")
	f.addVariant("zircona-a2", "zircona", "3")
	f.addEdge("edge-1", "corona", "zircona", "14")

	// sin variante seleccionada: rechazado
	_, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("7")}))
	require.ErrorIs(t, err, domain.ErrVariantRequired)

	// con variante: deduce el registro de la variante, el padre queda intacto
	_, err = f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{
			CatalogItemID:    "corona",
			Quantity:         d("7"),
			ResourceVariants: map[string]string{"zircona": "zircona-a2"},
		}))
	require.NoError(t, err)
	assert.True(t, f.quantity(t, "sr-zircona-a2").Equal(d("2.5")))
	assert.True(t, f.quantity(t, "sr-zircona").Equal(d("0")))
}

func TestCancelRestoresStockAndDeletesNote(t *testing.T) {
	f := newFixture()
	f.addItem("corona", false, "0")
	f.addResource("disco", false, "5")
	f.addEdge("edge-1", "corona", "disco", "28")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("14")}))
	require.NoError(t, err)
	require.True(t, f.quantity(t, "sr-disco").Equal(d("4.5")))

	require.NoError(t, f.uc.Cancel(context.Background(), testUser, testUser, note.ID))

	assert.True(t, f.quantity(t, "sr-disco").Equal(d("5")), "reposición exacta")
	assert.Empty(t, f.store.Notes)

	var outs, restores int
	for _, m := range f.store.Movements {
		switch m.Type {
		case entity.MovementOut:
			outs++
			assert.NotNil(t, m.RestoredAt, "el movimiento out queda marcado como repuesto")
		case entity.MovementRestore:
			restores++
			assert.True(t, m.Quantity.Equal(d("0.5")))
		}
	}
	assert.Equal(t, 1, outs)
	assert.Equal(t, 1, restores)
}

func TestCancelReplaysStoredMovements(t *testing.T) {
	f := newFixture()
	f.addItem("corona", false, "0")
	f.addResource("disco", false, "10")
	f.addEdge("edge-1", "corona", "disco", "28")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("28")}))
	require.NoError(t, err)
	require.True(t, f.quantity(t, "sr-disco").Equal(d("9")))

	// el BOM cambia tras la venta; la anulación rejuega lo deducido, no lo recalcula
	f.store.BOMEdges["edge-1"].QuantityNeeded = d("14")

	require.NoError(t, f.uc.Cancel(context.Background(), testUser, testUser, note.ID))
	assert.True(t, f.quantity(t, "sr-disco").Equal(d("10")))
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture()
	f.addItem("corona", true, "10")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("3")}))
	require.NoError(t, err)

	require.NoError(t, f.uc.Cancel(context.Background(), testUser, testUser, note.ID))
	require.True(t, f.quantity(t, "sr-corona").Equal(d("10")))

	// segundo intento: el bon ya no existe y el stock no se repone dos veces
	err = f.uc.Cancel(context.Background(), testUser, testUser, note.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.quantity(t, "sr-corona").Equal(d("10")))
}

func TestCancelInvoicedNoteRejected(t *testing.T) {
	f := newFixture()
	f.addItem("corona", true, "10")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("3")}))
	require.NoError(t, err)

	inv := "factura-9"
	f.store.Notes[note.ID].InvoiceID = &inv

	err = f.uc.Cancel(context.Background(), testUser, testUser, note.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.quantity(t, "sr-corona").Equal(d("7")), "el stock deducido se mantiene")
	assert.Len(t, f.store.Notes, 1)
}

func TestCancelSkipsUntrackedRecords(t *testing.T) {
	f := newFixture()
	f.addItem("corona", true, "10")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("2")}))
	require.NoError(t, err)

	// el seguimiento se apaga entre la venta y la anulación: reponer sigue siendo no-op
	f.store.StockRecords["sr-corona"].TrackingEnabled = false

	require.NoError(t, f.uc.Cancel(context.Background(), testUser, testUser, note.ID))
	assert.True(t, f.quantity(t, "sr-corona").Equal(d("8")))
}

func TestAdvanceStatus(t *testing.T) {
	f := newFixture()
	f.addItem("corona", true, "10")

	note, err := f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("1")}))
	require.NoError(t, err)

	next, err := f.uc.AdvanceStatus(context.Background(), testUser, note.ID, entity.NoteStatusPending)
	require.NoError(t, err)
	assert.Equal(t, entity.NoteStatusInProgress, next)

	// el cliente llega tarde con el estado viejo: conflicto, la fila no cambia
	_, err = f.uc.AdvanceStatus(context.Background(), testUser, note.ID, entity.NoteStatusPending)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.NoteStatusInProgress, f.store.Notes[note.ID].Status)

	next, err = f.uc.AdvanceStatus(context.Background(), testUser, note.ID, entity.NoteStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, entity.NoteStatusCompleted, next)

	// completed es terminal
	_, err = f.uc.AdvanceStatus(context.Background(), testUser, note.ID, entity.NoteStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AdvanceStatus(context.Background(), testUser, "no-existe", entity.NoteStatusPending)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	f.addItem("corona", true, "10")

	_, err := f.uc.Create(context.Background(), testUser, testUser, noteRequest())
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "corona", Quantity: d("0")}))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), testUser, testUser,
		noteRequest(dto.NoteItemRequest{CatalogItemID: "fantasma", Quantity: d("1")}))
	require.ErrorIs(t, err, domain.ErrNotFound)
}
