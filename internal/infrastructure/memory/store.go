package memory

import (
	"sort"
	"sync"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// Store estado compartido de los repositorios en memoria. Se usa en tests unitarios
// de los casos de uso, sin PostgreSQL; el TxRunner en memoria clona el estado antes
// de cada transacción y lo restaura si la función falla (all-or-nothing).
type Store struct {
	mu sync.Mutex

	StockRecords map[string]*entity.StockRecord
	CatalogItems map[string]*entity.CatalogItem
	BOMEdges     map[string]*entity.CatalogItemResource
	Resources    map[string]*entity.Resource
	Variants     map[string]*entity.ResourceVariant
	Movements    map[string]*entity.StockMovement
	Notes        map[string]*entity.DeliveryNote
	NoteItems    map[string]*entity.DeliveryNoteItem
	Brands       map[string]*entity.BatchBrand
	Materials    map[string]*entity.BatchMaterial
	Batches      map[string]*entity.BatchNumber
	Links        map[string]*entity.ResourceBatchLink
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		StockRecords: map[string]*entity.StockRecord{},
		CatalogItems: map[string]*entity.CatalogItem{},
		BOMEdges:     map[string]*entity.CatalogItemResource{},
		Resources:    map[string]*entity.Resource{},
		Variants:     map[string]*entity.ResourceVariant{},
		Movements:    map[string]*entity.StockMovement{},
		Notes:        map[string]*entity.DeliveryNote{},
		NoteItems:    map[string]*entity.DeliveryNoteItem{},
		Brands:       map[string]*entity.BatchBrand{},
		Materials:    map[string]*entity.BatchMaterial{},
		Batches:      map[string]*entity.BatchNumber{},
		Links:        map[string]*entity.ResourceBatchLink{},
	}
}

func (s *Store) snapshot() *Store {
	c := NewStore()
	for k, v := range s.StockRecords {
		cp := *v
		c.StockRecords[k] = &cp
	}
	for k, v := range s.CatalogItems {
		cp := *v
		c.CatalogItems[k] = &cp
	}
	for k, v := range s.BOMEdges {
		cp := *v
		c.BOMEdges[k] = &cp
	}
	for k, v := range s.Resources {
		cp := *v
		c.Resources[k] = &cp
	}
	for k, v := range s.Variants {
		cp := *v
		c.Variants[k] = &cp
	}
	for k, v := range s.Movements {
		cp := *v
		c.Movements[k] = &cp
	}
	for k, v := range s.Notes {
		cp := *v
		c.Notes[k] = &cp
	}
	for k, v := range s.NoteItems {
		cp := *v
		if v.ResourceVariants != nil {
			cp.ResourceVariants = make(map[string]string, len(v.ResourceVariants))
			for rk, rv := range v.ResourceVariants {
				cp.ResourceVariants[rk] = rv
			}
		}
		c.NoteItems[k] = &cp
	}
	for k, v := range s.Brands {
		cp := *v
		c.Brands[k] = &cp
	}
	for k, v := range s.Materials {
		cp := *v
		c.Materials[k] = &cp
	}
	for k, v := range s.Batches {
		cp := *v
		c.Batches[k] = &cp
	}
	for k, v := range s.Links {
		cp := *v
		c.Links[k] = &cp
	}
	return c
}

func (s *Store) restore(from *Store) {
	s.StockRecords = from.StockRecords
	s.CatalogItems = from.CatalogItems
	s.BOMEdges = from.BOMEdges
	s.Resources = from.Resources
	s.Variants = from.Variants
	s.Movements = from.Movements
	s.Notes = from.Notes
	s.NoteItems = from.NoteItems
	s.Brands = from.Brands
	s.Materials = from.Materials
	s.Batches = from.Batches
	s.Links = from.Links
}

// sortedKeys devuelve las claves de un mapa en orden estable.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
