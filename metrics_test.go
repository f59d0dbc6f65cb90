package langsync

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCollectorRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordRequestStart("project.get")
	mc.RecordRequest("project.get", 200, 50*time.Millisecond)
	mc.RecordRequestEnd("project.get")
	mc.RecordRetry("project.get")
	mc.RecordCacheHit("project.get")
	mc.RecordCacheMiss("project.get")
	mc.RecordDedupHit("project.get")
	mc.RecordError("NetworkError", "project.get")
	mc.RecordCacheSize(7)
	mc.RecordRateLimiterTokens(3)

	if got := testutil.ToFloat64(mc.requestsTotal.WithLabelValues("project.get", "200")); got != 1 {
		t.Errorf("requestsTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.requestsInFlight.WithLabelValues("project.get")); got != 0 {
		t.Errorf("requestsInFlight = %v, want 0 after end", got)
	}
	if got := testutil.ToFloat64(mc.retriesTotal.WithLabelValues("project.get")); got != 1 {
		t.Errorf("retriesTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.cacheHits.WithLabelValues("project.get")); got != 1 {
		t.Errorf("cacheHits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.dedupHits.WithLabelValues("project.get")); got != 1 {
		t.Errorf("dedupHits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues("NetworkError", "project.get")); got != 1 {
		t.Errorf("errorsTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(mc.cacheSize); got != 7 {
		t.Errorf("cacheSize = %v, want 7", got)
	}
	if got := testutil.ToFloat64(mc.rateLimiterTokens); got != 3 {
		t.Errorf("rateLimiterTokens = %v, want 3", got)
	}
}

func TestMetricsCollectorSeparateRegistries(t *testing.T) {
	// Two collectors on separate registries must not collide.
	mc1 := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	mc2 := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())

	mc1.RecordRequest("a", 200, time.Millisecond)

	if got := testutil.ToFloat64(mc2.requestsTotal.WithLabelValues("a", "200")); got != 0 {
		t.Errorf("Expected isolated collectors, got %v", got)
	}
}
