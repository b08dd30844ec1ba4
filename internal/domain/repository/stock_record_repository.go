package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/labstock-api/internal/domain/entity"
)

// LowStockRow es una fila del barrido de stock bajo, con el nombre del dueño resuelto.
type LowStockRow struct {
	StockRecordID string
	OwnerKind     string
	OwnerID       string
	OwnerName     string
	Quantity      decimal.Decimal
	Threshold     decimal.Decimal
	UnitLabel     string
}

// StockRecordRepository acceso a los registros de stock. El Ledger es el único
// caso de uso autorizado a llamar GetForUpdate/UpdateQuantity.
type StockRecordRepository interface {
	Get(ctx context.Context, userID, id string) (*entity.StockRecord, error)
	GetByOwner(ctx context.Context, ownerKind, ownerID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	Create(ctx context.Context, rec *entity.StockRecord) error
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	// UpdateSettings actualiza umbral, unidad, seguimiento y estado activo (no la cantidad).
	UpdateSettings(ctx context.Context, rec *entity.StockRecord) error
	DeleteByOwner(ctx context.Context, ownerKind, ownerID string) error
	// ListLowStock barre las tres clases de dueño: tracking activo, registro activo y
	// cantidad <= umbral. Las materias primas con variantes se excluyen (registro inerte).
	ListLowStock(ctx context.Context, userID string) ([]LowStockRow, error)
	CountLowStock(ctx context.Context, userID string) (int, error)
}
