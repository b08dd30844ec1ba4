package entity

import "time"

// BatchBrand agrupa materiales de lote por marca (Ivoclar, VITA...).
type BatchBrand struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BatchMaterial es un material con trazabilidad de lote (disco, cerámica, aleación).
type BatchMaterial struct {
	ID           string
	UserID       string
	BrandID      string
	BrandName    string // denormalizado en lecturas
	Name         string
	Description  string
	MaterialType string // disque, céramique, alliage...
	Favorite     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BatchNumber es un número de lote de un material. Invariante: como máximo un lote
// con Current=true por material, y ese lote tiene EndedAt nulo; los superados llevan
// EndedAt con el instante en que fueron reemplazados.
type BatchNumber struct {
	ID         string
	UserID     string
	MaterialID string
	Code       string
	Current    bool
	StartedAt  time.Time
	EndedAt    *time.Time
	Notes      string
	CreatedAt  time.Time
}

// ResourceBatchLink vincula una materia prima del stock con un material de lote,
// para que el bon de livraison pueda proponer el lote vigente.
type ResourceBatchLink struct {
	ID         string
	UserID     string
	ResourceID string
	MaterialID string
	CreatedAt  time.Time
}
