package langsync

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YonasValentin/langsync.xyz-sub001/internal/backoff"
)

func TestDefaults(t *testing.T) {
	client, err := New("key", "proj-1")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.Equal(t, DefaultRetries, client.retries)
	assert.Equal(t, DefaultCacheTTL, client.cacheTTL)
	assert.NotNil(t, client.cache)
	assert.Nil(t, client.limiter)
	assert.Nil(t, client.metrics)
}

func TestOptionsApply(t *testing.T) {
	httpClient := &http.Client{}
	client, err := New("key", "proj-1",
		WithBaseURL("https://eu.langsync.xyz"),
		WithTimeout(2*time.Second),
		WithRetries(4),
		WithCacheTTL(time.Minute),
		WithHTTPClient(httpClient),
		WithRateLimiter(10, time.Second),
	)
	require.NoError(t, err)

	assert.Equal(t, "https://eu.langsync.xyz", client.baseURL)
	assert.Equal(t, 2*time.Second, client.timeout)
	assert.Equal(t, 4, client.retries)
	assert.Equal(t, time.Minute, client.cacheTTL)
	assert.Same(t, httpClient, client.httpClient)
	assert.NotNil(t, client.limiter)
}

func TestWithJitterClamps(t *testing.T) {
	client, err := New("key", "proj-1", WithJitter(2.5))
	require.NoError(t, err)
	assert.Equal(t, 1.0, client.jitter)

	client, err = New("key", "proj-1", WithJitter(-0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.0, client.jitter)
}

func TestBackoffStrategySelection(t *testing.T) {
	client, err := New("key", "proj-1", WithBackoffStrategy(BackoffDecorrelatedJitter))
	require.NoError(t, err)
	assert.IsType(t, backoff.Decorrelated{}, client.buildBackoff())

	client, err = New("key", "proj-1")
	require.NoError(t, err)
	assert.IsType(t, backoff.Exponential{}, client.buildBackoff())
}

func TestValidateRejectsBadBackoff(t *testing.T) {
	_, err := New("key", "proj-1", WithInitialBackoff(-time.Second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialBackoff must be positive")

	_, err = New("key", "proj-1", WithInitialBackoff(time.Second), WithMaxBackoff(time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxBackoff must be at least initialBackoff")

	_, err = New("key", "proj-1", WithBackoffMultiplier(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backoffMultiplier must be positive")
}

func TestValidateRejectsBadCacheTTL(t *testing.T) {
	_, err := New("key", "proj-1", WithCacheTTL(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cacheTTL must be positive")

	// No TTL constraint once caching is off.
	_, err = New("key", "proj-1", WithoutCache(), WithCacheTTL(0))
	require.NoError(t, err)
}

func TestWithSimpleLoggerEnablesDebug(t *testing.T) {
	client, err := New("key", "proj-1", WithSimpleLogger())
	require.NoError(t, err)
	assert.True(t, client.debug.Enabled)
	assert.NotNil(t, client.logger)
}

func TestWithRequestIDGenerator(t *testing.T) {
	client, err := New("key", "proj-1", WithRequestIDGenerator(func() string { return "fixed" }))
	require.NoError(t, err)
	assert.Equal(t, "fixed", client.debug.RequestIDGen())
}
