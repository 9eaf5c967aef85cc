// Package metrics provides Prometheus metrics for the sync service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal tracks finished sync cycles by source and status
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "cycle",
			Name:      "runs_total",
			Help:      "Total number of sync cycles by source and status",
		},
		[]string{"source", "status"},
	)

	// CycleDuration tracks cycle duration in seconds
	CycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shelter_sync",
			Subsystem: "cycle",
			Name:      "duration_seconds",
			Help:      "Duration of sync cycles in seconds",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"source"},
	)

	// CyclesInFlight tracks cycles currently running
	CyclesInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "shelter_sync",
			Subsystem: "cycle",
			Name:      "in_flight",
			Help:      "Number of sync cycles currently running",
		},
		[]string{"source"},
	)

	// LastSuccess records the unix time of the last successful cycle
	LastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "shelter_sync",
			Subsystem: "cycle",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync cycle",
		},
		[]string{"source"},
	)

	// PagesTotal tracks upstream page requests
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "upstream",
			Name:      "pages_total",
			Help:      "Total number of upstream page requests by outcome",
		},
		[]string{"source", "partition", "outcome"},
	)

	// PageDuration tracks upstream page latency
	PageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shelter_sync",
			Subsystem: "upstream",
			Name:      "page_duration_seconds",
			Help:      "Duration of upstream page requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// DriftTotal tracks pagination anomalies
	DriftTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "upstream",
			Name:      "drift_total",
			Help:      "Total number of pagination anomalies by reason",
		},
		[]string{"source", "partition", "reason"},
	)

	// RecordsTotal tracks per-record outcomes
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "store",
			Name:      "records_total",
			Help:      "Total number of records by reconciliation outcome",
		},
		[]string{"source", "outcome"},
	)

	// StoreErrorsTotal tracks failed store operations
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Total number of failed store operations",
		},
		[]string{"source", "op"},
	)

	// MappingErrorsTotal tracks dropped upstream records
	MappingErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "upstream",
			Name:      "mapping_errors_total",
			Help:      "Total number of upstream records dropped by the mapper",
		},
		[]string{"source"},
	)

	// KafkaMessagesPublished tracks change notifications
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of change messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	// LockAttempts tracks cross-process lock acquisition
	LockAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelter_sync",
			Subsystem: "redis",
			Name:      "lock_attempts_total",
			Help:      "Total number of cycle lock acquisition attempts",
		},
		[]string{"key", "outcome"},
	)
)

// RecordCycle records a finished cycle
func RecordCycle(source, status string, durationSeconds float64) {
	CyclesTotal.WithLabelValues(source, status).Inc()
	CycleDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordPage records an upstream page request
func RecordPage(source, partition, outcome string, durationSeconds float64) {
	PagesTotal.WithLabelValues(source, partition, outcome).Inc()
	PageDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordDrift records a pagination anomaly
func RecordDrift(source, partition, reason string) {
	DriftTotal.WithLabelValues(source, partition, reason).Inc()
}

// RecordOutcome records the outcome of a single record
func RecordOutcome(source, outcome string) {
	RecordsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordStoreError records a failed store operation
func RecordStoreError(source, op string) {
	StoreErrorsTotal.WithLabelValues(source, op).Inc()
}

// RecordMappingError records a dropped upstream record
func RecordMappingError(source string) {
	MappingErrorsTotal.WithLabelValues(source).Inc()
}
