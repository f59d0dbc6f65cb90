package langsync

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Option configures a Client during construction.
type Option func(*Client)

// BackoffStrategy selects the retry delay curve.
type BackoffStrategy int

const (
	// BackoffExponentialJitter grows delays geometrically with uniform
	// jitter on top. The default.
	BackoffExponentialJitter BackoffStrategy = iota
	// BackoffDecorrelatedJitter draws each delay uniformly from a widening
	// window, smoothing tail latencies under herd load.
	BackoffDecorrelatedJitter
)

// WithBaseURL overrides the API base URL.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		c.baseURL = rawURL
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetries sets the total attempt budget per logical call, at least 1.
// A budget of 1 means a single attempt with no retries.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithCacheTTL sets the lifetime of cached responses.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithoutCache disables response caching entirely. De-duplication of
// concurrent identical requests still applies.
func WithoutCache() Option {
	return func(c *Client) {
		c.cache = nil
	}
}

// WithHTTPClient sets a custom *http.Client for the default transport. Its
// Timeout is cleared at construction; the executor owns every deadline.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTransport replaces the transport entirely. Middleware still wraps it.
func WithTransport(transport Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithMiddleware appends middleware to the transport chain, outermost first.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithRateLimiter enables the client-side token bucket.
func WithRateLimiter(maxTokens int, refillRate time.Duration) Option {
	return func(c *Client) {
		c.limiter = NewRateLimiter(maxTokens, refillRate)
	}
}

// WithInitialBackoff sets the first retry delay.
func WithInitialBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.initialBackoff = d
	}
}

// WithMaxBackoff caps the retry delay.
func WithMaxBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.maxBackoff = d
	}
}

// WithBackoffMultiplier sets the growth factor between retry delays.
func WithBackoffMultiplier(f float64) Option {
	return func(c *Client) {
		c.backoffMultiplier = f
	}
}

// WithJitter sets the jitter fraction (0.0 to 1.0) added to retry delays.
func WithJitter(f float64) Option {
	return func(c *Client) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		c.jitter = f
	}
}

// WithBackoffStrategy selects the retry delay curve.
func WithBackoffStrategy(s BackoffStrategy) Option {
	return func(c *Client) {
		c.backoffStrategy = s
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator overrides the correlation ID generator used in
// debug output.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// validate checks the assembled configuration. Called once by New.
func (c *Client) validate() error {
	var problems []string

	if c.apiKey == "" {
		problems = append(problems, "apiKey is required")
	}
	if c.projectID == "" {
		problems = append(problems, "projectID is required")
	}
	if c.baseURL == "" {
		problems = append(problems, "baseURL must not be empty")
	}
	if c.timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if c.retries < 1 {
		problems = append(problems, "retries must be at least 1")
	}
	if c.cache != nil && c.cacheTTL <= 0 {
		problems = append(problems, "cacheTTL must be positive when caching is enabled")
	}
	if c.initialBackoff <= 0 {
		problems = append(problems, "initialBackoff must be positive")
	}
	if c.maxBackoff < c.initialBackoff {
		problems = append(problems, "maxBackoff must be at least initialBackoff")
	}
	if c.backoffMultiplier <= 0 {
		problems = append(problems, "backoffMultiplier must be positive")
	}
	if c.jitter < 0 || c.jitter > 1 {
		problems = append(problems, "jitter must be between 0 and 1")
	}
	if c.limiter != nil {
		if c.limiter.maxTokens <= 0 {
			problems = append(problems, "rateLimiter maxTokens must be positive")
		}
		if c.limiter.refillRate <= 0 {
			problems = append(problems, "rateLimiter refillRate must be positive")
		}
	}
	if c.debug != nil && c.debug.Enabled && c.logger == nil {
		problems = append(problems, "logger must be set when debug is enabled")
	}
	if c.httpClient == nil && c.transport == nil {
		problems = append(problems, "HTTP client cannot be nil")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
