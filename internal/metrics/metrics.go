// Package metrics provides Prometheus metrics for the skin analysis
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus collectors for the service.
type Manager struct {
	registry prometheus.Registerer

	analysesCompleted *prometheus.CounterVec
	analysesRejected  *prometheus.CounterVec
	engineDuration    prometheus.Histogram
	routineOutcomes   *prometheus.CounterVec
	reportsGenerated  prometheus.Counter
	retentionDeleted  prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(customRegistry)
}

// NewManager creates a metrics manager registered on the given
// registry.
func NewManager(registry prometheus.Registerer) *Manager {
	m := &Manager{registry: registry}
	auto := promauto.With(registry)

	m.analysesCompleted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dermalyze",
			Name:      "analyses_completed_total",
			Help:      "Total number of completed analyses by tier",
		},
		[]string{"tier"},
	)

	m.analysesRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dermalyze",
			Name:      "analyses_rejected_total",
			Help:      "Total number of rejected analysis requests by reason",
		},
		[]string{"reason"},
	)

	m.engineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dermalyze",
		Name:      "engine_duration_seconds",
		Help:      "Time spent in the metrics pipeline per analysis",
		Buckets:   prometheus.DefBuckets,
	})

	m.routineOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dermalyze",
			Name:      "routine_outcomes_total",
			Help:      "Routine generation outcomes (generated vs fallback)",
		},
		[]string{"source"},
	)

	m.reportsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "dermalyze",
		Name:      "reports_generated_total",
		Help:      "Total number of premium detailed reports generated",
	})

	m.retentionDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "dermalyze",
		Name:      "retention_deleted_total",
		Help:      "Total number of records removed by retention",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dermalyze",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dermalyze",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	return m
}

// RecordAnalysisCompleted increments the completed-analyses counter.
func RecordAnalysisCompleted(tier string) {
	globalManager.analysesCompleted.WithLabelValues(tier).Inc()
}

// RecordAnalysisRejected increments the rejection counter for a reason
// such as "no_face", "multiple_faces" or "quota".
func RecordAnalysisRejected(reason string) {
	globalManager.analysesRejected.WithLabelValues(reason).Inc()
}

// RecordEngineDuration records one pipeline run.
func RecordEngineDuration(d time.Duration) {
	globalManager.engineDuration.Observe(d.Seconds())
}

// RecordRoutineOutcome increments the routine-outcome counter.
func RecordRoutineOutcome(source string) {
	globalManager.routineOutcomes.WithLabelValues(source).Inc()
}

// RecordReportGenerated increments the report counter.
func RecordReportGenerated() {
	globalManager.reportsGenerated.Inc()
}

// RecordRetentionDeleted adds to the retention counter.
func RecordRetentionDeleted(count int64) {
	globalManager.retentionDeleted.Add(float64(count))
}

// RecordHTTPRequest records one request with its duration.
func RecordHTTPRequest(route, method, status string, duration time.Duration) {
	globalManager.httpRequests.WithLabelValues(route, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
