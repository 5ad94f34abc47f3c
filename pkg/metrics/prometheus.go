// Package metrics provides Prometheus metrics for the rvcalc session service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts.
var (
	// Aggregations are in-memory and usually finish well under a millisecond.
	defaultLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 50}
	// Relative values are floored at 80 and cluster around 90-100.
	defaultRVBuckets = prometheus.LinearBuckets(80, 5, 11)
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	rvBuckets      []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Session lifecycle
	sessionsInitialized prometheus.Counter
	sessionResets       prometheus.Counter
	reportsUpserted     *prometheus.CounterVec
	projections         prometheus.Counter

	// Aggregation engine
	aggregations      prometheus.Counter
	aggregationErrors prometheus.Counter
	aggregateDuration prometheus.Histogram
	cumulativeRV      prometheus.Histogram
	activeReportCount prometheus.Gauge
	activeProfileAvg  prometheus.Gauge
	activeProfileHigh prometheus.Gauge
	committedReports  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "rvcalc",
		subsystem:      "session",
		latencyBuckets: defaultLatencyBuckets,
		rvBuckets:      defaultRVBuckets,
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsInitialized = m.counter("initialized_total", "Total number of sessions initialized with a baseline profile")
	m.sessionResets = m.counter("resets_total", "Total number of session resets")
	m.reportsUpserted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reports_upserted_total",
		Help:        "Total number of committed reports by outcome (inserted, replaced)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})
	m.projections = m.counter("projections_total", "Total number of projected aggregates served")

	m.aggregations = m.counter("aggregations_total", "Total number of aggregate computations")
	m.aggregationErrors = m.counter("aggregation_errors_total", "Total number of rejected aggregate computations")
	m.aggregateDuration = m.histogram("aggregate_duration_milliseconds", "Aggregate computation time in milliseconds", m.latencyBuckets)
	m.cumulativeRV = m.histogram("cumulative_rv", "Distribution of cumulative relative values", m.rvBuckets)
	m.activeReportCount = m.gauge("active_report_count", "Report count of the active profile")
	m.activeProfileAvg = m.gauge("active_profile_avg", "Average of the active profile")
	m.activeProfileHigh = m.gauge("active_profile_high", "High of the active profile")
	m.committedReports = m.gauge("committed_reports", "Reports committed during the current session")

	labels := []string{"endpoint", "method", "status_code"}
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, labels)
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, labels)
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "errors_total",
		Help:        "HTTP errors by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "rate_limited_total",
		Help:        "Requests rejected by the rate limiter",
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})
}

// RecordSessionInitialized increments the initialized sessions counter.
func RecordSessionInitialized() {
	globalManager.sessionsInitialized.Inc()
}

// RecordSessionReset increments the reset counter and clears session gauges.
func RecordSessionReset() {
	globalManager.sessionResets.Inc()
	globalManager.activeReportCount.Set(0)
	globalManager.activeProfileAvg.Set(0)
	globalManager.activeProfileHigh.Set(0)
	globalManager.committedReports.Set(0)
}

// RecordReportUpsert counts a committed report.
func RecordReportUpsert(replaced bool) {
	outcome := "inserted"
	if replaced {
		outcome = "replaced"
	}
	globalManager.reportsUpserted.WithLabelValues(outcome).Inc()
}

// RecordProjection increments the projection counter.
func RecordProjection() {
	globalManager.projections.Inc()
}

// RecordAggregation records one aggregate computation and its cumulative values.
func RecordAggregation(durationMs float64, cumulativeRVs []float64) {
	globalManager.aggregations.Inc()
	globalManager.aggregateDuration.Observe(durationMs)
	for _, rv := range cumulativeRVs {
		globalManager.cumulativeRV.Observe(rv)
	}
}

// RecordAggregationError increments the aggregation error counter.
func RecordAggregationError() {
	globalManager.aggregationErrors.Inc()
}

// UpdateActiveProfile sets the active profile gauges.
func UpdateActiveProfile(reportCount int, avg, high float64, committed int) {
	globalManager.activeReportCount.Set(float64(reportCount))
	globalManager.activeProfileAvg.Set(avg)
	globalManager.activeProfileHigh.Set(high)
	globalManager.committedReports.Set(float64(committed))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
