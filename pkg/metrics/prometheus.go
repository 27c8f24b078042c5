// Package metrics provides Prometheus metrics for the clientscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Request metrics
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Validation and auth metrics
	validationErrors *prometheus.CounterVec
	authFailures     prometheus.Counter
	unknownMethods   prometheus.Counter

	// Store metrics
	storeRetries *prometheus.CounterVec
	storeErrors  *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter

	// Scoring metrics
	scoresComputed   prometheus.Counter
	interestsLookups prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clientscore",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.requests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Method requests by scoring method and status code.",
	}, []string{"method", "status"})

	m.requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "request_duration_ms",
		Help:      "Method request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"method"})

	m.validationErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_errors_total",
		Help:      "Requests rejected by schema validation, by request shape.",
	}, []string{"shape"})

	m.authFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_failures_total",
		Help:      "Requests rejected by token verification.",
	})

	m.unknownMethods = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_methods_total",
		Help:      "Requests naming a method the dispatcher does not know.",
	})

	m.storeRetries = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "retries_total",
		Help:      "Store attempts that failed transiently and were retried.",
	}, []string{"op"})

	m.storeErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Store operations that exhausted their retry budget.",
	}, []string{"op"})

	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "cache_hits_total",
		Help:      "Score cache reads that found a value.",
	})

	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "cache_misses_total",
		Help:      "Score cache reads that found nothing.",
	})

	m.scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "scores_computed_total",
		Help:      "Scores computed from scratch (cache misses).",
	})

	m.interestsLookups = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "interests_lookups_total",
		Help:      "Interest list lookups served.",
	})
}

// RecordRequest records one handled method request.
func RecordRequest(method, status string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.requests.WithLabelValues(method, status).Inc()
	}
}

// RecordRequestDuration records the handling latency of a method request.
func RecordRequestDuration(method string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.requestDuration.WithLabelValues(method).Observe(durationMs)
	}
}

// RecordValidationError records a schema validation rejection.
func RecordValidationError(shape string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.validationErrors.WithLabelValues(shape).Inc()
	}
}

// RecordAuthFailure records a token verification rejection.
func RecordAuthFailure() {
	if globalManager != nil && globalManager.enabled {
		globalManager.authFailures.Inc()
	}
}

// RecordUnknownMethod records a dispatch miss.
func RecordUnknownMethod() {
	if globalManager != nil && globalManager.enabled {
		globalManager.unknownMethods.Inc()
	}
}

// RecordStoreRetry records one retried store attempt.
func RecordStoreRetry(op string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeRetries.WithLabelValues(op).Inc()
	}
}

// RecordStoreError records a store operation that exhausted its retries.
func RecordStoreError(op string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeErrors.WithLabelValues(op).Inc()
	}
}

// RecordCacheHit records a score cache hit.
func RecordCacheHit() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss records a score cache miss.
func RecordCacheMiss() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// RecordScoreComputed records a score computed from scratch.
func RecordScoreComputed() {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoresComputed.Inc()
	}
}

// RecordInterestsLookup records a served interests lookup.
func RecordInterestsLookup() {
	if globalManager != nil && globalManager.enabled {
		globalManager.interestsLookups.Inc()
	}
}

// GetRegistry returns the custom Prometheus registry backing the global
// manager, for exposition via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
