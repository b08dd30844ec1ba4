package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/labstock-api/internal/domain"
)

func TestResourceConsumption(t *testing.T) {
	cases := []struct {
		name     string
		sold     string
		needed   string
		expected string
	}{
		{"disco completo", "28", "28", "1"},
		{"una corona consume 1/28 de disco", "1", "28", "0.0357142857142857"},
		{"gramos por unidad (0.2 => 5g por unidad)", "28", "0.2", "140"},
		{"consumo fraccionario", "3", "2", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResourceConsumption(decimal.RequireFromString(tc.sold), decimal.RequireFromString(tc.needed))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(got),
				"esperado %s, obtenido %s", tc.expected, got)
		})
	}
}

func TestResourceConsumptionRechazaRatioNoPositivo(t *testing.T) {
	_, err := ResourceConsumption(decimal.NewFromInt(10), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ResourceConsumption(decimal.NewFromInt(10), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeltaInverseRestauraBitABit(t *testing.T) {
	d := Delta{StockRecordID: "sr-1", OwnerKind: "resource", Quantity: decimal.RequireFromString("-0.0357142857142857")}
	inv := d.Inverse()
	assert.True(t, d.Quantity.Add(inv.Quantity).IsZero())
	assert.Equal(t, d.StockRecordID, inv.StockRecordID)
}
