package langsync

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/YonasValentin/langsync.xyz-sub001/internal/backoff"
	"github.com/YonasValentin/langsync.xyz-sub001/internal/inflight"
)

// Client is the LangSync API client. Resource methods build a request
// descriptor and delegate to the orchestration core; the Client itself holds
// the cache, the in-flight registry and the configuration. Safe for
// concurrent use.
type Client struct {
	apiKey    string
	projectID string
	baseURL   string
	timeout   time.Duration
	retries   int

	cache    Cache
	cacheTTL time.Duration

	httpClient *http.Client
	transport  Transport
	middleware []Middleware

	limiter *RateLimiter

	backoffStrategy   BackoffStrategy
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	jitter            float64

	metrics *MetricsCollector
	logger  Logger
	debug   *DebugConfig

	exec *executor
}

// New constructs a Client for one project using the provided functional
// options. The configuration is validated up front; an invalid combination
// returns an error rather than a half-working client.
func New(apiKey, projectID string, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:            apiKey,
		projectID:         projectID,
		baseURL:           DefaultBaseURL,
		timeout:           DefaultTimeout,
		retries:           DefaultRetries,
		cache:             NewMemoryCache(),
		cacheTTL:          DefaultCacheTTL,
		httpClient:        &http.Client{},
		backoffStrategy:   BackoffExponentialJitter,
		initialBackoff:    100 * time.Millisecond,
		maxBackoff:        10 * time.Second,
		backoffMultiplier: 2.0,
		jitter:            0.1,
		debug:             DefaultDebugConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", c.baseURL, err)
	}

	// The executor owns every deadline; the http.Client must not carry its
	// own timeout or its firing would be indistinguishable from a transport
	// failure.
	transport := c.transport
	if transport == nil {
		c.httpClient.Timeout = 0
		transport = c.httpClient
	}

	// Auth sits innermost so user middleware observes the final request.
	middleware := append([]Middleware{}, c.middleware...)
	middleware = append(middleware, authMiddleware(c.apiKey, c.projectID))

	c.exec = &executor{
		baseURL:   base,
		transport: chain(transport, middleware),
		cache:     c.cache,
		registry:  inflight.NewRegistry[*Result](),
		backoff:   c.buildBackoff(),
		limiter:   c.limiter,
		metrics:   c.metrics,
		logger:    c.logger,
		debug:     c.debug,
	}
	return c, nil
}

// NewFromConfig constructs a Client from a Config; additional options apply
// on top of it.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout),
		WithRetries(cfg.Retries),
		WithCacheTTL(cfg.CacheTTL),
	}
	return New(cfg.APIKey, cfg.ProjectID, append(base, opts...)...)
}

// NewFromEnv constructs a Client from LANGSYNC_* environment variables.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

func (c *Client) buildBackoff() backoff.Strategy {
	switch c.backoffStrategy {
	case BackoffDecorrelatedJitter:
		return backoff.Decorrelated{Initial: c.initialBackoff, Max: c.maxBackoff}
	default:
		return backoff.Exponential{
			Initial:    c.initialBackoff,
			Max:        c.maxBackoff,
			Multiplier: c.backoffMultiplier,
			Jitter:     c.jitter,
		}
	}
}

// ProjectID returns the project this client is scoped to.
func (c *Client) ProjectID() string {
	return c.projectID
}

// InvalidateCache drops every cached response.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// newDescriptor builds the immutable descriptor for one logical call using
// the client's configured timeout, attempt budget and cache TTL.
func (c *Client) newDescriptor(operation, method, path string, query url.Values, body any, cacheable bool) *RequestDescriptor {
	return &RequestDescriptor{
		Operation:   operation,
		Method:      method,
		Path:        path,
		Query:       query,
		Body:        body,
		Timeout:     c.timeout,
		MaxAttempts: c.retries,
		Cacheable:   cacheable,
		CacheTTL:    c.cacheTTL,
	}
}
