package langsync

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle and
// the reliability layers. Operations (not raw URLs) label the series to keep
// cardinality bounded. Safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSize   prometheus.Gauge

	dedupHits *prometheus.CounterVec

	rateLimiterTokens prometheus.Gauge

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "langsync_requests_total",
				Help: "Total number of API requests made",
			},
			[]string{"operation", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "langsync_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "langsync_requests_in_flight",
				Help: "Number of logical requests currently executing",
			},
			[]string{"operation"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "langsync_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"operation"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "langsync_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"operation"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "langsync_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"operation"},
		),
		cacheSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "langsync_cache_entries",
				Help: "Number of entries currently stored in the cache",
			},
		),
		dedupHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "langsync_deduplication_hits_total",
				Help: "Total number of requests coalesced onto an in-flight attempt",
			},
			[]string{"operation"},
		),
		rateLimiterTokens: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "langsync_rate_limiter_tokens",
				Help: "Tokens remaining in the client-side rate limiter",
			},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "langsync_errors_total",
				Help: "Total number of classified errors",
			},
			[]string{"kind", "operation"},
		),
	}
}

// RecordRequest records the final outcome of one logical request.
func (mc *MetricsCollector) RecordRequest(operation string, statusCode int, duration time.Duration) {
	mc.requestsTotal.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	mc.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(operation string) {
	mc.requestsInFlight.WithLabelValues(operation).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(operation string) {
	mc.requestsInFlight.WithLabelValues(operation).Dec()
}

// RecordRetry counts one retry attempt.
func (mc *MetricsCollector) RecordRetry(operation string) {
	mc.retriesTotal.WithLabelValues(operation).Inc()
}

// RecordCacheHit counts a cache hit.
func (mc *MetricsCollector) RecordCacheHit(operation string) {
	mc.cacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss counts a cache miss.
func (mc *MetricsCollector) RecordCacheMiss(operation string) {
	mc.cacheMisses.WithLabelValues(operation).Inc()
}

// RecordCacheSize updates the stored-entry gauge.
func (mc *MetricsCollector) RecordCacheSize(size int) {
	mc.cacheSize.Set(float64(size))
}

// RecordDedupHit counts a caller coalesced onto an in-flight attempt.
func (mc *MetricsCollector) RecordDedupHit(operation string) {
	mc.dedupHits.WithLabelValues(operation).Inc()
}

// RecordRateLimiterTokens updates the limiter token gauge.
func (mc *MetricsCollector) RecordRateLimiterTokens(tokens int) {
	mc.rateLimiterTokens.Set(float64(tokens))
}

// RecordError counts a classified error by kind.
func (mc *MetricsCollector) RecordError(kind, operation string) {
	mc.errorsTotal.WithLabelValues(kind, operation).Inc()
}
