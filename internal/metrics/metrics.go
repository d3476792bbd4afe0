package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "txmon"

var (
	Ticks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Polling iterations by result.",
	}, []string{"status"})

	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Polling iteration latency.",
		Buckets:   prometheus.DefBuckets,
	})

	BlocksProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_processed_total",
		Help:      "Blocks handed to the block processor.",
	})

	Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Transaction events by storage result.",
	}, []string{"status"})

	TransactionErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_errors_total",
		Help:      "Monitored transactions skipped because of processing errors.",
	})

	CursorHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cursor_height",
		Help:      "Last fully processed block height.",
	})

	ChainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chain_height",
		Help:      "Last seen chain tip height.",
	})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP API requests.",
	}, []string{"method", "path", "status"})
)

// Tick statuses.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusIdle    = "idle"
	StatusSkipped = "skipped"
)

// Event statuses.
const (
	EventInserted  = "inserted"
	EventDuplicate = "duplicate"
	EventError     = "error"
)

func init() {
	prometheus.MustRegister(
		Ticks,
		TickDuration,
		BlocksProcessed,
		Events,
		TransactionErrors,
		CursorHeight,
		ChainHeight,
		HTTPRequests,
	)
}
