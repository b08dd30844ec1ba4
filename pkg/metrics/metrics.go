package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Colectores Prometheus del motor de inventario. Se registran en el registry
// por defecto; main expone /metrics vía promhttp.
var (
	// LedgerApplies deltas aplicados por el Ledger, etiquetados por clase de dueño y tipo.
	LedgerApplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labstock",
		Subsystem: "ledger",
		Name:      "applies_total",
		Help:      "Deltas de stock aplicados por el Ledger.",
	}, []string{"owner_kind", "kind"})

	// InsufficientStock deducciones rechazadas por dejar cantidad negativa.
	InsufficientStock = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Subsystem: "ledger",
		Name:      "insufficient_stock_total",
		Help:      "Deducciones rechazadas por stock insuficiente.",
	})

	// TxRetries reintentos de transacción por conflicto de serialización o deadlock.
	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Subsystem: "db",
		Name:      "tx_retries_total",
		Help:      "Reintentos de transacción por conflicto de concurrencia.",
	})

	// LowStockRecords registros en o bajo su umbral según el último barrido.
	LowStockRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "labstock",
		Subsystem: "scanner",
		Name:      "low_stock_records",
		Help:      "Registros de stock en o bajo su umbral (último barrido).",
	})
)
