// Package metrics provides Prometheus metrics for the happiness dashboard service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     prometheus.Labels
	registry        prometheus.Registerer

	// Dataset Metrics
	datasetRows         *prometheus.GaugeVec
	datasetRecordsTotal prometheus.Gauge
	datasetLoadDuration prometheus.Histogram

	// Chart Metrics
	chartBuilds       *prometheus.CounterVec
	chartFailures     *prometheus.CounterVec
	chartBuildLatency *prometheus.HistogramVec
	renderLatency     *prometheus.HistogramVec
	exports           *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "happiness",
		subsystem:       "dashboard",
		latencyBuckets:  defaultLatencyBucketsMs,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Dataset Metrics - what the dashboard is built on
	m.datasetRows = auto.NewGaugeVec(
		m.gaugeOpts("dataset_rows", "Number of country rows loaded per report year"),
		[]string{"year"},
	)
	m.datasetRecordsTotal = auto.NewGauge(
		m.gaugeOpts("dataset_records_total", "Number of rows in the combined dataset"),
	)
	m.datasetLoadDuration = auto.NewHistogram(
		m.histogramOpts("dataset_load_duration_milliseconds", "Time spent loading every report year", m.latencyBuckets),
	)

	// Chart Metrics - aggregation and rendering
	m.chartBuilds = auto.NewCounterVec(
		m.counterOpts("chart_builds_total", "Total number of chart data builds by chart"),
		[]string{"chart"},
	)
	m.chartFailures = auto.NewCounterVec(
		m.counterOpts("chart_build_failures_total", "Chart builds replaced by a placeholder, by chart and reason"),
		[]string{"chart", "reason"},
	)
	m.chartBuildLatency = auto.NewHistogramVec(
		m.histogramOpts("chart_build_latency_milliseconds", "Chart data build latency in milliseconds", m.latencyBuckets),
		[]string{"chart"},
	)
	m.renderLatency = auto.NewHistogramVec(
		m.histogramOpts("chart_render_latency_milliseconds", "PNG render latency in milliseconds", m.latencyBuckets),
		[]string{"chart"},
	)
	m.exports = auto.NewCounterVec(
		m.counterOpts("exports_total", "Total number of dataset exports by format"),
		[]string{"format"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds (user experience)", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component and error type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by error type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RefreshInterval is how often gauge updaters should sample.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RecordDatasetRows sets the row count of one report year.
func (m *Manager) RecordDatasetRows(year, rows int) {
	if !m.enabled {
		return
	}
	m.datasetRows.WithLabelValues(strconv.Itoa(year)).Set(float64(rows))
}

// UpdateDatasetRecordsTotal sets the size of the combined dataset.
func (m *Manager) UpdateDatasetRecordsTotal(count int) {
	if !m.enabled {
		return
	}
	m.datasetRecordsTotal.Set(float64(count))
}

// RecordDatasetLoadDuration records how long loading every year took.
func (m *Manager) RecordDatasetLoadDuration(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.datasetLoadDuration.Observe(latencyMs)
}

// RecordChartBuild counts a chart data build and its latency.
func (m *Manager) RecordChartBuild(chart string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.chartBuilds.WithLabelValues(chart).Inc()
	m.chartBuildLatency.WithLabelValues(chart).Observe(latencyMs)
}

// RecordChartFailure counts a chart that was replaced by a placeholder.
func (m *Manager) RecordChartFailure(chart, reason string) {
	if !m.enabled {
		return
	}
	m.chartFailures.WithLabelValues(chart, reason).Inc()
}

// RecordRenderLatency records PNG render latency for a chart.
func (m *Manager) RecordRenderLatency(chart string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.renderLatency.WithLabelValues(chart).Observe(latencyMs)
}

// RecordExport counts a dataset export.
func (m *Manager) RecordExport(format string) {
	if !m.enabled {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !m.enabled {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if !m.enabled {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemGCPauseTime.Observe(pauseMs)
}

// Package-level helpers backed by the global manager.

// RecordDatasetRows sets the row count of one report year.
func RecordDatasetRows(year, rows int) { globalManager.RecordDatasetRows(year, rows) }

// UpdateDatasetRecordsTotal sets the size of the combined dataset.
func UpdateDatasetRecordsTotal(count int) { globalManager.UpdateDatasetRecordsTotal(count) }

// RecordDatasetLoadDuration records how long loading every year took.
func RecordDatasetLoadDuration(latencyMs float64) {
	globalManager.RecordDatasetLoadDuration(latencyMs)
}

// RecordChartBuild counts a chart data build and its latency.
func RecordChartBuild(chart string, latencyMs float64) {
	globalManager.RecordChartBuild(chart, latencyMs)
}

// RecordChartFailure counts a chart that was replaced by a placeholder.
func RecordChartFailure(chart, reason string) { globalManager.RecordChartFailure(chart, reason) }

// RecordRenderLatency records PNG render latency for a chart.
func RecordRenderLatency(chart string, latencyMs float64) {
	globalManager.RecordRenderLatency(chart, latencyMs)
}

// RecordExport counts a dataset export.
func RecordExport(format string) { globalManager.RecordExport(format) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// RefreshInterval returns the sampling interval of the global manager.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
