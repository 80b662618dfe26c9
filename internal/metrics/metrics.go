// Package metrics holds the Prometheus collectors exposed on the ops server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExchangeTotal counts dataset file exports and imports by mode and result
	ExchangeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phone8ez_dataset_exchange_total",
		Help: "Dataset file exports and imports by direction, mode and result",
	}, []string{"direction", "mode", "result"})

	// ExchangeBytes tracks the size of exchanged dataset files
	ExchangeBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phone8ez_dataset_exchange_bytes",
		Help:    "Size of exported and imported dataset files in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB to 16MiB
	}, []string{"direction"})

	// HistoryTransitions counts undo, redo and recorded edits
	HistoryTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phone8ez_history_transitions_total",
		Help: "Workspace history transitions by kind",
	}, []string{"kind"})

	// SheetIngestDuration tracks workbook parsing latency
	SheetIngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phone8ez_sheet_ingest_duration_seconds",
		Help:    "Workbook parse and normalize duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
	})

	// ActiveWorkspaces reports the number of live workspaces
	ActiveWorkspaces = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "phone8ez_active_workspaces",
		Help: "Number of workspaces currently held in memory",
	})
)

// Result labels
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultReserved = "reserved"
)
