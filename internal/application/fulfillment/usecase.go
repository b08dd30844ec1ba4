package fulfillment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/application/inventory"
	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	dominv "github.com/tu-usuario/labstock-api/internal/domain/inventory"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

// UseCase ciclo de vida de los bons de livraison: creación (única deducción de stock),
// avance de estado y anulación (reposición por rejuego de movimientos).
type UseCase struct {
	txRunner TxRunner
	resolver *inventory.ConsumptionResolver
	noteRepo repository.DeliveryNoteRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. noteRepo va atado al pool (solo lecturas);
// las escrituras pasan por txRunner.
func NewUseCase(txRunner TxRunner, resolver *inventory.ConsumptionResolver, noteRepo repository.DeliveryNoteRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, resolver: resolver, noteRepo: noteRepo, log: log}
}

// Create crea el bon y deduce el stock en la misma transacción. Los deltas se
// resuelven por línea antes de abrir la transacción (el resolver no muta nada) y
// se aplican ordenados por registro para un orden de bloqueo estable. Cada delta
// aplicado deja un movimiento 'out' ligado al bon; la anulación posterior rejuega
// esos movimientos, no recalcula el BOM.
func (uc *UseCase) Create(ctx context.Context, userID, createdBy string, in dto.CreateDeliveryNoteRequest) (*dto.DeliveryNoteDTO, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	type lineDeltas struct {
		item   dto.NoteItemRequest
		deltas []dominv.Delta
	}
	lines := make([]lineDeltas, 0, len(in.Items))
	for _, it := range in.Items {
		deltas, err := uc.resolver.Resolve(ctx, userID, it.CatalogItemID, it.Quantity, it.ResourceVariants)
		if err != nil {
			return nil, err
		}
		lines = append(lines, lineDeltas{item: it, deltas: deltas})
	}

	now := time.Now()
	note := &entity.DeliveryNote{
		ID:        uuid.New().String(),
		UserID:    userID,
		DentistID: in.DentistID,
		Status:    entity.NoteStatusPending,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	items := make([]*entity.DeliveryNoteItem, 0, len(lines))
	var all []dominv.Delta
	for _, ln := range lines {
		items = append(items, &entity.DeliveryNoteItem{
			ID:               uuid.New().String(),
			DeliveryNoteID:   note.ID,
			CatalogItemID:    ln.item.CatalogItemID,
			Quantity:         ln.item.Quantity,
			ResourceVariants: ln.item.ResourceVariants,
		})
		all = append(all, ln.deltas...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].StockRecordID < all[j].StockRecordID })

	err := uc.txRunner.RunFulfillment(ctx, func(noteRepo repository.DeliveryNoteRepository, stockRepo repository.StockRecordRepository, movRepo repository.StockMovementRepository) error {
		if err := noteRepo.Create(ctx, note, items); err != nil {
			return err
		}
		for _, d := range all {
			_, applied, err := inventory.Apply(ctx, stockRepo, d, false)
			if err != nil {
				return err
			}
			if !applied {
				continue
			}
			mov := &entity.StockMovement{
				ID:             uuid.New().String(),
				UserID:         userID,
				StockRecordID:  d.StockRecordID,
				DeliveryNoteID: note.ID,
				Type:           entity.MovementOut,
				Quantity:       d.Quantity,
				CreatedAt:      now,
				CreatedBy:      createdBy,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("delivery_note_id", note.ID).Int("items", len(items)).Int("deltas", len(all)).Msg("bon de livraison creado")
	return uc.toDTO(note, items), nil
}

// Cancel anula el bon: rejuega invertidos los movimientos 'out' pendientes, los marca
// como repuestos y elimina el registro, todo en una transacción. Un bon facturado no
// se puede anular (ErrConflict); un segundo Cancel concurrente encuentra el bon ya
// eliminado y devuelve ErrNotFound sin reponer dos veces.
func (uc *UseCase) Cancel(ctx context.Context, userID, createdBy, id string) error {
	err := uc.txRunner.RunFulfillment(ctx, func(noteRepo repository.DeliveryNoteRepository, stockRepo repository.StockRecordRepository, movRepo repository.StockMovementRepository) error {
		note, err := noteRepo.GetForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}
		if note == nil {
			return domain.ErrNotFound
		}
		if note.InvoiceID != nil {
			return domain.ErrConflict
		}

		movs, err := movRepo.ListOutstandingByNote(ctx, note.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		restoredIDs := make([]string, 0, len(movs))
		for _, m := range movs {
			inverse := dominv.Delta{StockRecordID: m.StockRecordID, Quantity: m.Quantity.Neg()}
			if _, _, err := inventory.Apply(ctx, stockRepo, inverse, true); err != nil {
				return err
			}
			restore := &entity.StockMovement{
				ID:             uuid.New().String(),
				UserID:         userID,
				StockRecordID:  m.StockRecordID,
				DeliveryNoteID: note.ID,
				Type:           entity.MovementRestore,
				Quantity:       inverse.Quantity,
				CreatedAt:      now,
				CreatedBy:      createdBy,
			}
			if err := movRepo.Create(ctx, restore); err != nil {
				return err
			}
			restoredIDs = append(restoredIDs, m.ID)
		}
		if len(restoredIDs) > 0 {
			if err := movRepo.MarkRestored(ctx, restoredIDs, now); err != nil {
				return err
			}
		}
		return noteRepo.Delete(ctx, userID, note.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("delivery_note_id", id).Msg("bon de livraison anulado, stock repuesto")
	return nil
}

// AdvanceStatus avanza el bon un paso (pending -> in_progress -> completed). El estado
// de partida viene explícito del cliente; si la fila ya no está en ese estado la
// actualización guardada no toca nada y se responde ErrConflict.
func (uc *UseCase) AdvanceStatus(ctx context.Context, userID, id, from string) (string, error) {
	next := entity.NextNoteStatus(from)
	if next == "" {
		return "", domain.ErrInvalidInput
	}
	ok, err := uc.noteRepo.UpdateStatus(ctx, userID, id, from, next)
	if err != nil {
		return "", err
	}
	if !ok {
		note, err := uc.noteRepo.GetByID(ctx, userID, id)
		if err != nil {
			return "", err
		}
		if note == nil {
			return "", domain.ErrNotFound
		}
		return "", domain.ErrConflict
	}
	return next, nil
}

// Get devuelve el bon con sus líneas.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*dto.DeliveryNoteDTO, error) {
	note, err := uc.noteRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.noteRepo.ListItems(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	return uc.toDTO(note, items), nil
}

// List devuelve los bons del usuario, más recientes primero.
func (uc *UseCase) List(ctx context.Context, userID string, page dto.PageRequest) ([]dto.DeliveryNoteDTO, error) {
	notes, err := uc.noteRepo.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryNoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, *uc.toDTO(n, nil))
	}
	return out, nil
}

func (uc *UseCase) toDTO(note *entity.DeliveryNote, items []*entity.DeliveryNoteItem) *dto.DeliveryNoteDTO {
	d := &dto.DeliveryNoteDTO{
		ID:        note.ID,
		DentistID: note.DentistID,
		Status:    note.Status,
		InvoiceID: note.InvoiceID,
		Notes:     note.Notes,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range items {
		d.Items = append(d.Items, dto.NoteItemRequest{
			CatalogItemID:    it.CatalogItemID,
			Quantity:         it.Quantity,
			ResourceVariants: it.ResourceVariants,
		})
	}
	return d
}
