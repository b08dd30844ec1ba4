package inventory

import (
	"context"

	"github.com/tu-usuario/labstock-api/internal/application/dto"
	"github.com/tu-usuario/labstock-api/internal/domain/repository"
	"github.com/tu-usuario/labstock-api/pkg/metrics"
)

// LowStockUseCase barrido de stock bajo sobre las tres clases de registro.
// Lectura pura, pensado para el dashboard (bajo demanda o por sondeo periódico).
type LowStockUseCase struct {
	stockRepo repository.StockRecordRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(stockRepo repository.StockRecordRepository) *LowStockUseCase {
	return &LowStockUseCase{stockRepo: stockRepo}
}

// Scan devuelve las alertas de stock bajo del laboratorio: registros activos con
// seguimiento y cantidad <= umbral. Los registros inertes de materias primas con
// variantes quedan excluidos por construcción (solo cuentan sus variantes).
func (uc *LowStockUseCase) Scan(ctx context.Context, userID string) ([]dto.LowStockAlertDTO, error) {
	rows, err := uc.stockRepo.ListLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertDTO, 0, len(rows))
	for _, r := range rows {
		alerts = append(alerts, dto.LowStockAlertDTO{
			StockRecordID: r.StockRecordID,
			OwnerKind:     r.OwnerKind,
			OwnerID:       r.OwnerID,
			OwnerName:     r.OwnerName,
			Quantity:      r.Quantity,
			Threshold:     r.Threshold,
			UnitLabel:     r.UnitLabel,
		})
	}
	metrics.LowStockRecords.Set(float64(len(alerts)))
	return alerts, nil
}

// Count devuelve solo el número de registros en alerta (badge del dashboard).
func (uc *LowStockUseCase) Count(ctx context.Context, userID string) (int, error) {
	return uc.stockRepo.CountLowStock(ctx, userID)
}
