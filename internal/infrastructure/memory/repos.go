package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain"
	"github.com/tu-usuario/labstock-api/internal/domain/entity"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
)

// Verificación de contratos.
var (
	_ repository.StockRecordRepository   = (*StockRecordRepo)(nil)
	_ repository.CatalogItemRepository   = (*CatalogItemRepo)(nil)
	_ repository.BOMRepository           = (*BOMRepo)(nil)
	_ repository.ResourceRepository      = (*ResourceRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.DeliveryNoteRepository  = (*DeliveryNoteRepo)(nil)
	_ repository.BatchRepository         = (*BatchRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// StockRecordRepo
// ──────────────────────────────────────────────────────────────────────────────

// StockRecordRepo registros de stock en memoria.
type StockRecordRepo struct{ s *Store }

// NewStockRecordRepo construye el repositorio sobre el store compartido.
func NewStockRecordRepo(s *Store) *StockRecordRepo { return &StockRecordRepo{s: s} }

func (r *StockRecordRepo) Get(_ context.Context, userID, id string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.StockRecords[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *StockRecordRepo) GetByOwner(_ context.Context, ownerKind, ownerID string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, k := range sortedKeys(r.s.StockRecords) {
		rec := r.s.StockRecords[k]
		if rec.OwnerKind == ownerKind && rec.OwnerID == ownerID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StockRecordRepo) GetForUpdate(_ context.Context, id string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.StockRecords[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *StockRecordRepo) Create(_ context.Context, rec *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rec
	r.s.StockRecords[rec.ID] = &cp
	return nil
}

func (r *StockRecordRepo) UpdateQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.StockRecords[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Quantity = quantity
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *StockRecordRepo) UpdateSettings(_ context.Context, in *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.StockRecords[in.ID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.LowStockThreshold = in.LowStockThreshold
	rec.TrackingEnabled = in.TrackingEnabled
	rec.UnitLabel = in.UnitLabel
	rec.Active = in.Active
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *StockRecordRepo) DeleteByOwner(_ context.Context, ownerKind, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rec := range r.s.StockRecords {
		if rec.OwnerKind == ownerKind && rec.OwnerID == ownerID {
			delete(r.s.StockRecords, id)
		}
	}
	return nil
}

func (r *StockRecordRepo) ListLowStock(_ context.Context, userID string) ([]repository.LowStockRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.LowStockRow
	for _, k := range sortedKeys(r.s.StockRecords) {
		rec := r.s.StockRecords[k]
		if rec.UserID != userID || !rec.TrackingEnabled || !rec.Active {
			continue
		}
		if rec.Quantity.GreaterThan(rec.LowStockThreshold) {
			continue
		}
		name := r.ownerName(rec)
		if rec.OwnerKind == entity.OwnerResource {
			if res, ok := r.s.Resources[rec.OwnerID]; ok && res.HasVariants {
				continue // registro inerte: el stock vive en las variantes
			}
		}
		rows = append(rows, repository.LowStockRow{
			StockRecordID: rec.ID,
			OwnerKind:     rec.OwnerKind,
			OwnerID:       rec.OwnerID,
			OwnerName:     name,
			Quantity:      rec.Quantity,
			Threshold:     rec.LowStockThreshold,
			UnitLabel:     rec.UnitLabel,
		})
	}
	return rows, nil
}

func (r *StockRecordRepo) CountLowStock(ctx context.Context, userID string) (int, error) {
	rows, err := r.ListLowStock(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *StockRecordRepo) ownerName(rec *entity.StockRecord) string {
	switch rec.OwnerKind {
	case entity.OwnerCatalogItem:
		if it, ok := r.s.CatalogItems[rec.OwnerID]; ok {
			return it.Name
		}
	case entity.OwnerResource:
		if res, ok := r.s.Resources[rec.OwnerID]; ok {
			return res.Name
		}
	case entity.OwnerResourceVariant:
		if v, ok := r.s.Variants[rec.OwnerID]; ok {
			if res, ok := r.s.Resources[v.ResourceID]; ok {
				return res.Name + " / " + v.Name
			}
			return v.Name
		}
	}
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// CatalogItemRepo / BOMRepo
// ──────────────────────────────────────────────────────────────────────────────

// CatalogItemRepo artículos del catálogo en memoria.
type CatalogItemRepo struct{ s *Store }

// NewCatalogItemRepo construye el repositorio.
func NewCatalogItemRepo(s *Store) *CatalogItemRepo { return &CatalogItemRepo{s: s} }

func (r *CatalogItemRepo) Create(_ context.Context, item *entity.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *item
	r.s.CatalogItems[item.ID] = &cp
	return nil
}

func (r *CatalogItemRepo) GetByID(_ context.Context, userID, id string) (*entity.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.CatalogItems[id]
	if !ok || item.UserID != userID {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *CatalogItemRepo) List(_ context.Context, userID string, limit, offset int) ([]*entity.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CatalogItem
	for _, k := range sortedKeys(r.s.CatalogItems) {
		if item := r.s.CatalogItems[k]; item.UserID == userID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *CatalogItemRepo) Update(_ context.Context, item *entity.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.CatalogItems[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.CatalogItems[item.ID] = &cp
	return nil
}

func (r *CatalogItemRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.CatalogItems[id]
	if !ok || item.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.CatalogItems, id)
	for eid, e := range r.s.BOMEdges {
		if e.CatalogItemID == id {
			delete(r.s.BOMEdges, eid)
		}
	}
	return nil
}

// BOMRepo aristas de la lista de materiales en memoria.
type BOMRepo struct{ s *Store }

// NewBOMRepo construye el repositorio.
func NewBOMRepo(s *Store) *BOMRepo { return &BOMRepo{s: s} }

func (r *BOMRepo) Create(_ context.Context, edge *entity.CatalogItemResource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.BOMEdges {
		if e.CatalogItemID == edge.CatalogItemID && e.ResourceID == edge.ResourceID {
			return domain.ErrDuplicate
		}
	}
	cp := *edge
	r.s.BOMEdges[edge.ID] = &cp
	return nil
}

func (r *BOMRepo) ListByItem(_ context.Context, catalogItemID string) ([]*entity.CatalogItemResource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CatalogItemResource
	for _, k := range sortedKeys(r.s.BOMEdges) {
		if e := r.s.BOMEdges[k]; e.CatalogItemID == catalogItemID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BOMRepo) CountByItem(ctx context.Context, catalogItemID string) (int, error) {
	edges, err := r.ListByItem(ctx, catalogItemID)
	if err != nil {
		return 0, err
	}
	return len(edges), nil
}

func (r *BOMRepo) UpdateQuantity(_ context.Context, edgeID string, quantityNeeded decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.BOMEdges[edgeID]
	if !ok {
		return domain.ErrNotFound
	}
	e.QuantityNeeded = quantityNeeded
	return nil
}

func (r *BOMRepo) Delete(_ context.Context, edgeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.BOMEdges[edgeID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.BOMEdges, edgeID)
	return nil
}

func (r *BOMRepo) Get(_ context.Context, edgeID string) (*entity.CatalogItemResource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.BOMEdges[edgeID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ResourceRepo
// ──────────────────────────────────────────────────────────────────────────────

// ResourceRepo materias primas y variantes en memoria.
type ResourceRepo struct{ s *Store }

// NewResourceRepo construye el repositorio.
func NewResourceRepo(s *Store) *ResourceRepo { return &ResourceRepo{s: s} }

func (r *ResourceRepo) Create(_ context.Context, res *entity.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *res
	r.s.Resources[res.ID] = &cp
	return nil
}

func (r *ResourceRepo) GetByID(_ context.Context, userID, id string) (*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.Resources[id]
	if !ok || res.UserID != userID {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *ResourceRepo) List(_ context.Context, userID string, limit, offset int) ([]*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Resource
	for _, k := range sortedKeys(r.s.Resources) {
		if res := r.s.Resources[k]; res.UserID == userID {
			cp := *res
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *ResourceRepo) Update(_ context.Context, res *entity.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Resources[res.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *res
	r.s.Resources[res.ID] = &cp
	return nil
}

func (r *ResourceRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.Resources[id]
	if !ok || res.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.Resources, id)
	for vid, v := range r.s.Variants {
		if v.ResourceID == id {
			delete(r.s.Variants, vid)
		}
	}
	return nil
}

func (r *ResourceRepo) CreateVariant(_ context.Context, v *entity.ResourceVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *v
	r.s.Variants[v.ID] = &cp
	return nil
}

func (r *ResourceRepo) GetVariant(_ context.Context, id string) (*entity.ResourceVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.Variants[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *ResourceRepo) ListVariants(_ context.Context, resourceID string) ([]*entity.ResourceVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ResourceVariant
	for _, k := range sortedKeys(r.s.Variants) {
		if v := r.s.Variants[k]; v.ResourceID == resourceID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ResourceRepo) UpdateVariant(_ context.Context, v *entity.ResourceVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Variants[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	r.s.Variants[v.ID] = &cp
	return nil
}

func (r *ResourceRepo) DeleteVariant(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Variants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Variants, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// StockMovementRepo
// ──────────────────────────────────────────────────────────────────────────────

// StockMovementRepo movimientos en memoria.
type StockMovementRepo struct{ s *Store }

// NewStockMovementRepo construye el repositorio.
func NewStockMovementRepo(s *Store) *StockMovementRepo { return &StockMovementRepo{s: s} }

func (r *StockMovementRepo) Create(_ context.Context, mov *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *mov
	r.s.Movements[mov.ID] = &cp
	return nil
}

func (r *StockMovementRepo) ListOutstandingByNote(_ context.Context, deliveryNoteID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, k := range sortedKeys(r.s.Movements) {
		m := r.s.Movements[k]
		if m.DeliveryNoteID == deliveryNoteID && m.Type == entity.MovementOut && m.RestoredAt == nil {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *StockMovementRepo) MarkRestored(_ context.Context, ids []string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if m, ok := r.s.Movements[id]; ok {
			t := at
			m.RestoredAt = &t
		}
	}
	return nil
}

func (r *StockMovementRepo) ListByRecord(_ context.Context, stockRecordID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, k := range sortedKeys(r.s.Movements) {
		if m := r.s.Movements[k]; m.StockRecordID == stockRecordID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// DeliveryNoteRepo
// ──────────────────────────────────────────────────────────────────────────────

// DeliveryNoteRepo bons de livraison en memoria.
type DeliveryNoteRepo struct{ s *Store }

// NewDeliveryNoteRepo construye el repositorio.
func NewDeliveryNoteRepo(s *Store) *DeliveryNoteRepo { return &DeliveryNoteRepo{s: s} }

func (r *DeliveryNoteRepo) Create(_ context.Context, note *entity.DeliveryNote, items []*entity.DeliveryNoteItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *note
	r.s.Notes[note.ID] = &cp
	for _, it := range items {
		icp := *it
		r.s.NoteItems[it.ID] = &icp
	}
	return nil
}

func (r *DeliveryNoteRepo) GetByID(_ context.Context, userID, id string) (*entity.DeliveryNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Notes[id]
	if !ok || n.UserID != userID {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *DeliveryNoteRepo) GetForUpdate(ctx context.Context, userID, id string) (*entity.DeliveryNote, error) {
	return r.GetByID(ctx, userID, id)
}

func (r *DeliveryNoteRepo) List(_ context.Context, userID string, limit, offset int) ([]*entity.DeliveryNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DeliveryNote
	for _, k := range sortedKeys(r.s.Notes) {
		if n := r.s.Notes[k]; n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *DeliveryNoteRepo) ListItems(_ context.Context, deliveryNoteID string) ([]*entity.DeliveryNoteItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DeliveryNoteItem
	for _, k := range sortedKeys(r.s.NoteItems) {
		if it := r.s.NoteItems[k]; it.DeliveryNoteID == deliveryNoteID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *DeliveryNoteRepo) UpdateStatus(_ context.Context, userID, id, from, to string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Notes[id]
	if !ok || n.UserID != userID || n.Status != from {
		return false, nil
	}
	n.Status = to
	n.UpdatedAt = time.Now()
	return true, nil
}

func (r *DeliveryNoteRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Notes[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.Notes, id)
	for iid, it := range r.s.NoteItems {
		if it.DeliveryNoteID == id {
			delete(r.s.NoteItems, iid)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// BatchRepo
// ──────────────────────────────────────────────────────────────────────────────

// BatchRepo marcas, materiales y lotes en memoria.
type BatchRepo struct{ s *Store }

// NewBatchRepo construye el repositorio.
func NewBatchRepo(s *Store) *BatchRepo { return &BatchRepo{s: s} }

func (r *BatchRepo) CreateBrand(_ context.Context, b *entity.BatchBrand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	r.s.Brands[b.ID] = &cp
	return nil
}

func (r *BatchRepo) ListBrands(_ context.Context, userID string) ([]*entity.BatchBrand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BatchBrand
	for _, k := range sortedKeys(r.s.Brands) {
		if b := r.s.Brands[k]; b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BatchRepo) UpdateBrand(_ context.Context, b *entity.BatchBrand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Brands[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	r.s.Brands[b.ID] = &cp
	return nil
}

func (r *BatchRepo) DeleteBrand(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.Brands[id]
	if !ok || b.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.Brands, id)
	for mid, m := range r.s.Materials {
		if m.BrandID == id {
			delete(r.s.Materials, mid)
		}
	}
	return nil
}

func (r *BatchRepo) CreateMaterial(_ context.Context, m *entity.BatchMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.Materials[m.ID] = &cp
	return nil
}

func (r *BatchRepo) GetMaterial(_ context.Context, userID, id string) (*entity.BatchMaterial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.Materials[id]
	if !ok || m.UserID != userID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *BatchRepo) ListMaterials(_ context.Context, userID string) ([]*entity.BatchMaterial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BatchMaterial
	for _, k := range sortedKeys(r.s.Materials) {
		if m := r.s.Materials[k]; m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BatchRepo) UpdateMaterial(_ context.Context, m *entity.BatchMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Materials[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.s.Materials[m.ID] = &cp
	return nil
}

func (r *BatchRepo) SetMaterialFavorite(_ context.Context, userID, id string, favorite bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.Materials[id]
	if !ok || m.UserID != userID {
		return domain.ErrNotFound
	}
	m.Favorite = favorite
	return nil
}

func (r *BatchRepo) DeleteMaterial(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.Materials[id]
	if !ok || m.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.Materials, id)
	for bid, b := range r.s.Batches {
		if b.MaterialID == id {
			delete(r.s.Batches, bid)
		}
	}
	return nil
}

func (r *BatchRepo) CloseCurrentBatch(_ context.Context, materialID string, at time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	closed := 0
	for _, b := range r.s.Batches {
		if b.MaterialID == materialID && b.Current {
			t := at
			b.Current = false
			b.EndedAt = &t
			closed++
		}
	}
	return closed, nil
}

func (r *BatchRepo) InsertBatch(_ context.Context, b *entity.BatchNumber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	r.s.Batches[b.ID] = &cp
	return nil
}

func (r *BatchRepo) GetCurrentBatch(_ context.Context, materialID string) (*entity.BatchNumber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, k := range sortedKeys(r.s.Batches) {
		if b := r.s.Batches[k]; b.MaterialID == materialID && b.Current {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BatchRepo) History(_ context.Context, userID, materialID string) ([]*entity.BatchNumber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BatchNumber
	for _, k := range sortedKeys(r.s.Batches) {
		if b := r.s.Batches[k]; b.MaterialID == materialID && b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BatchRepo) MaterialsWithBrokenInvariant(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	currents := map[string]int{}
	total := map[string]int{}
	for _, b := range r.s.Batches {
		total[b.MaterialID]++
		if b.Current {
			currents[b.MaterialID]++
		}
	}
	var out []string
	for mid, n := range total {
		if n > 0 && currents[mid] != 1 {
			out = append(out, mid)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *BatchRepo) PromoteLatestBatch(_ context.Context, materialID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.BatchNumber
	for _, b := range r.s.Batches {
		if b.MaterialID != materialID {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil
	}
	for _, b := range r.s.Batches {
		if b.MaterialID != materialID || b == latest {
			continue
		}
		if b.Current {
			t := at
			b.Current = false
			b.EndedAt = &t
		}
	}
	latest.Current = true
	latest.EndedAt = nil
	return nil
}

func (r *BatchRepo) CreateLink(_ context.Context, l *entity.ResourceBatchLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *l
	r.s.Links[l.ID] = &cp
	return nil
}

func (r *BatchRepo) ListLinksByResource(_ context.Context, userID, resourceID string) ([]*entity.ResourceBatchLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ResourceBatchLink
	for _, k := range sortedKeys(r.s.Links) {
		if l := r.s.Links[k]; l.UserID == userID && l.ResourceID == resourceID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BatchRepo) DeleteLink(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.Links[id]
	if !ok || l.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.Links, id)
	return nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
