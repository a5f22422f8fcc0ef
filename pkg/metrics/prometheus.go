// Package metrics provides Prometheus metrics for the teamboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the teamboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Snapshot Store Metrics - the data backbone of the dashboard
	snapshotsIndexed     prometheus.Gauge
	teamSnapshotsIndexed prometheus.Gauge
	snapshotRowsParsed   prometheus.Counter
	snapshotRowsSkipped  *prometheus.CounterVec
	snapshotRefreshes    prometheus.Counter
	snapshotRefreshMs    prometheus.Histogram
	snapshotLastRefresh  prometheus.Gauge

	// Probation Metrics - milestone evaluation activity
	probationEvaluations prometheus.Counter
	probationEvalMs      prometheus.Histogram
	probationCacheHits   prometheus.Counter
	probationCacheMisses prometheus.Counter
	overrideWrites       prometheus.Counter
	trackedMembers       prometheus.Gauge

	// Trend Metrics - chart building activity
	trendRequests *prometheus.CounterVec
	trendBuildMs  prometheus.Histogram

	// Watcher Metrics - filesystem change events
	watcherEvents  prometheus.Counter
	watcherReloads prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "teamboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Snapshot Store Metrics
	m.snapshotsIndexed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_indexed",
		Help:      "Number of dated member snapshot files currently indexed",
	})

	m.teamSnapshotsIndexed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_snapshots_indexed",
		Help:      "Number of dated team ranking files currently indexed",
	})

	m.snapshotRowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_rows_parsed_total",
		Help:      "Total number of snapshot rows parsed successfully",
	})

	m.snapshotRowsSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_rows_skipped_total",
			Help:      "Total number of snapshot rows skipped by reason (data quality)",
		},
		[]string{"reason"},
	)

	m.snapshotRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_refreshes_total",
		Help:      "Total number of snapshot index refreshes",
	})

	m.snapshotRefreshMs = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_refresh_duration_milliseconds",
		Help:      "Snapshot index refresh duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotLastRefresh = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_refresh_unix",
		Help:      "Unix timestamp of the last snapshot index refresh",
	})

	// Probation Metrics
	m.probationEvaluations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "probation_evaluations_total",
		Help:      "Total number of full probation report evaluations",
	})

	m.probationEvalMs = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "probation_evaluation_duration_milliseconds",
		Help:      "Probation report evaluation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.probationCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "probation_cache_hits_total",
		Help:      "Total number of probation report cache hits",
	})

	m.probationCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "probation_cache_misses_total",
		Help:      "Total number of probation report cache misses",
	})

	m.overrideWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "override_writes_total",
		Help:      "Total number of milestone override saves",
	})

	m.trackedMembers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_members",
		Help:      "Number of members in the latest snapshot (business scale)",
	})

	// Trend Metrics
	m.trendRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "trend_requests_total",
			Help:      "Total number of trend chart builds by chart type and value mode",
		},
		[]string{"chart_type", "value_mode"},
	)

	m.trendBuildMs = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trend_build_duration_milliseconds",
		Help:      "Trend payload build duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Watcher Metrics
	m.watcherEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "watcher_events_total",
		Help:      "Total number of filesystem events seen by the snapshot watcher",
	})

	m.watcherReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "watcher_reloads_total",
		Help:      "Total number of store reloads triggered by the watcher",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Snapshot Store Metrics Functions.

// UpdateSnapshotsIndexed sets the number of indexed member snapshot files.
func UpdateSnapshotsIndexed(count int) {
	globalManager.snapshotsIndexed.Set(float64(count))
}

// UpdateTeamSnapshotsIndexed sets the number of indexed team ranking files.
func UpdateTeamSnapshotsIndexed(count int) {
	globalManager.teamSnapshotsIndexed.Set(float64(count))
}

// RecordSnapshotRowParsed increments the parsed rows counter.
func RecordSnapshotRowParsed() {
	globalManager.snapshotRowsParsed.Inc()
}

// RecordSnapshotRowSkipped increments the skipped rows counter for a reason.
func RecordSnapshotRowSkipped(reason string) {
	globalManager.snapshotRowsSkipped.WithLabelValues(reason).Inc()
}

// RecordSnapshotRefresh increments the refresh counter and timestamps it.
func RecordSnapshotRefresh(durationMs float64) {
	globalManager.snapshotRefreshes.Inc()
	globalManager.snapshotRefreshMs.Observe(durationMs)
	globalManager.snapshotLastRefresh.Set(float64(time.Now().Unix()))
}

// Probation Metrics Functions.

// RecordProbationEvaluation records one full report evaluation.
func RecordProbationEvaluation(durationMs float64) {
	globalManager.probationEvaluations.Inc()
	globalManager.probationEvalMs.Observe(durationMs)
}

// RecordProbationCacheHit increments the cache hit counter.
func RecordProbationCacheHit() {
	globalManager.probationCacheHits.Inc()
}

// RecordProbationCacheMiss increments the cache miss counter.
func RecordProbationCacheMiss() {
	globalManager.probationCacheMisses.Inc()
}

// RecordOverrideWrite increments the override save counter.
func RecordOverrideWrite() {
	globalManager.overrideWrites.Inc()
}

// UpdateTrackedMembers sets the member count from the latest snapshot.
func UpdateTrackedMembers(count int) {
	globalManager.trackedMembers.Set(float64(count))
}

// Trend Metrics Functions.

// RecordTrendRequest records one trend payload build.
func RecordTrendRequest(chartType, valueMode string, durationMs float64) {
	globalManager.trendRequests.WithLabelValues(chartType, valueMode).Inc()
	globalManager.trendBuildMs.Observe(durationMs)
}

// Watcher Metrics Functions.

// RecordWatcherEvent increments the filesystem event counter.
func RecordWatcherEvent() {
	globalManager.watcherEvents.Inc()
}

// RecordWatcherReload increments the triggered reload counter.
func RecordWatcherReload() {
	globalManager.watcherReloads.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
