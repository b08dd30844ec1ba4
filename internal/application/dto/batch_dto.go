package dto

// BrandRequest body para crear/actualizar una marca de lote.
type BrandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// MaterialRequest body para crear/actualizar un material con trazabilidad de lote.
type MaterialRequest struct {
	BrandID      string `json:"brand_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MaterialType string `json:"material_type"`
	Favorite     bool   `json:"favorite"`
	Active       *bool  `json:"active,omitempty"`
}

// RecordBatchRequest body para POST /api/batch/materials/:id/numbers.
type RecordBatchRequest struct {
	Code  string `json:"code"`
	Notes string `json:"notes,omitempty"`
}

// BatchNumberDTO número de lote en respuestas.
type BatchNumberDTO struct {
	ID         string  `json:"id"`
	MaterialID string  `json:"material_id"`
	Code       string  `json:"code"`
	Current    bool    `json:"current"`
	StartedAt  string  `json:"started_at"`
	EndedAt    *string `json:"ended_at,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// SetFavoriteRequest body para PUT /api/batch/materials/:id/favorite.
type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// ResourceBatchLinkRequest vincula una materia prima con un material de lote.
type ResourceBatchLinkRequest struct {
	ResourceID string `json:"resource_id"`
	MaterialID string `json:"material_id"`
}
