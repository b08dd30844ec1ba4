package entity

import "time"

// Resource representa una materia prima consumible (disco de zircona, cera, yeso...).
// Si HasVariants es true su propio StockRecord queda inerte: todo el stock vive
// en las variantes y el selector de consumo exige elegir una.
type Resource struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Unit        string // unidad de stock: disque, gramme, litre...
	HasVariants bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ResourceVariant es una declinación concreta de una materia prima
// (tono A2, diámetro 98mm...). Cada variante tiene su propio StockRecord.
type ResourceVariant struct {
	ID         string
	ResourceID string
	Name       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
