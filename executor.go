package langsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/YonasValentin/langsync.xyz-sub001/internal/backoff"
	"github.com/YonasValentin/langsync.xyz-sub001/internal/cancelmerge"
	"github.com/YonasValentin/langsync.xyz-sub001/internal/inflight"
)

// maxResponseBody bounds how much of a response the client will buffer; a
// larger body is rejected outright rather than truncated.
const maxResponseBody = 10 * 1024 * 1024

// Result is the terminal value of a successful logical request. Results are
// shared between de-duplicated callers and with the cache; treat them as
// immutable.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Result) decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// executor orchestrates one logical request: cache lookup, de-duplication,
// timeout/cancellation composition, the bounded retry loop and settlement
// fan-out. It owns the cache and registry exclusively; nothing else mutates
// them.
type executor struct {
	baseURL   *url.URL
	transport Transport
	cache     Cache
	registry  *inflight.Registry[*Result]
	backoff   backoff.Strategy
	limiter   *RateLimiter
	metrics   *MetricsCollector
	logger    Logger
	debug     *DebugConfig
}

func (ex *executor) execute(ctx context.Context, desc *RequestDescriptor) (*Result, error) {
	// A signal that has already fired short-circuits before any timer,
	// registry entry or transport work exists.
	if err := ctx.Err(); err != nil {
		return nil, abortError(err)
	}

	start := time.Now()
	op := desc.Operation
	fp := desc.Fingerprint()

	var requestID string
	if ex.debug != nil && ex.debug.Enabled && ex.debug.RequestIDGen != nil {
		requestID = ex.debug.RequestIDGen()
	}

	if ex.debug != nil && ex.debug.Enabled && ex.debug.LogRequests && ex.logger != nil {
		ex.logger.Debug("Starting request", "requestID", requestID, "operation", op, "method", desc.Method, "path", desc.Path)
	}

	if ex.metrics != nil {
		ex.metrics.RecordRequestStart(op)
		defer ex.metrics.RecordRequestEnd(op)
	}

	if desc.Cacheable && ex.cache != nil {
		if entry, ok := ex.cache.Get(fp); ok {
			if ex.debug != nil && ex.debug.Enabled && ex.debug.LogCache && ex.logger != nil {
				ex.logger.Debug("Cache hit", "requestID", requestID, "operation", op, "fingerprint", fp)
			}
			if ex.metrics != nil {
				ex.metrics.RecordCacheHit(op)
				ex.metrics.RecordRequest(op, entry.Result.StatusCode, time.Since(start))
			}
			return entry.Result, nil
		}
		if ex.metrics != nil {
			ex.metrics.RecordCacheMiss(op)
		}
	}

	var entry *inflight.Entry[*Result]
	owner := false
	if desc.Cacheable {
		entry, owner = ex.registry.GetOrCreate(fp)
		if !owner {
			// Attach as a waiter to the existing attempt. This caller's
			// own signal governs only its wait, never the shared attempt.
			if ex.debug != nil && ex.debug.Enabled && ex.debug.LogDedup && ex.logger != nil {
				ex.logger.Debug("Deduplication hit", "requestID", requestID, "operation", op, "fingerprint", fp)
			}
			if ex.metrics != nil {
				ex.metrics.RecordDedupHit(op)
			}

			res, err := entry.Wait(ctx)
			if err != nil {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					// The waiter's own signal fired while attached.
					apiErr = abortError(err)
				}
				ex.recordOutcome(op, nil, apiErr, start)
				return nil, apiErr
			}
			ex.recordOutcome(op, res, nil, start)
			return res, nil
		}
	}

	res, apiErr := ex.run(ctx, desc, requestID)

	if apiErr == nil && desc.Cacheable && ex.cache != nil {
		ex.cache.Set(fp, &CacheEntry{Result: res}, desc.CacheTTL)
		if ex.debug != nil && ex.debug.Enabled && ex.debug.LogCache && ex.logger != nil {
			ex.logger.Debug("Response cached", "requestID", requestID, "operation", op, "fingerprint", fp, "ttl", desc.CacheTTL)
		}
		if mem, ok := ex.cache.(*MemoryCache); ok && ex.metrics != nil {
			ex.metrics.RecordCacheSize(mem.Len())
		}
	}

	if owner {
		// Cache population precedes settlement so callers arriving after the
		// broadcast find the entry. Settle removes the fingerprint before it
		// wakes the waiters; the registry never holds a settled attempt.
		var settleErr error
		if apiErr != nil {
			settleErr = apiErr
		}
		ex.registry.Settle(fp, res, settleErr)
	}

	ex.recordOutcome(op, res, apiErr, start)
	if apiErr != nil {
		return nil, apiErr
	}
	return res, nil
}

// run drives the attempt loop for the owning caller.
func (ex *executor) run(ctx context.Context, desc *RequestDescriptor, requestID string) (*Result, *APIError) {
	op := desc.Operation
	attempts := desc.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; ; attempt++ {
		if ex.limiter != nil {
			if !ex.limiter.Allow() {
				if ex.debug != nil && ex.debug.Enabled && ex.debug.LogRateLimit && ex.logger != nil {
					ex.logger.Warn("Rate limit exceeded", "requestID", requestID, "operation", op)
				}
				return nil, &APIError{Kind: KindRateLimit, Message: "rate limit exceeded"}
			}
			if ex.metrics != nil {
				ex.metrics.RecordRateLimiterTokens(ex.limiter.Tokens())
			}
		}

		if attempt > 0 {
			if ex.debug != nil && ex.debug.Enabled && ex.debug.LogRetries && ex.logger != nil {
				ex.logger.Info("Retry attempt", "requestID", requestID, "operation", op, "attempt", attempt+1, "maxAttempts", attempts)
			}
			if ex.metrics != nil {
				ex.metrics.RecordRetry(op)
			}
		}

		res, src, apiErr := ex.attempt(ctx, desc)
		if apiErr == nil {
			return res, nil
		}

		if src == cancelmerge.Caller {
			// Caller cancellation is terminal regardless of remaining
			// attempts.
			return nil, apiErr
		}
		if attempt+1 >= attempts || !apiErr.transient() {
			return nil, apiErr
		}

		delay := apiErr.retryAfter
		if delay <= 0 {
			delay = ex.backoff.Delay(attempt)
		}
		if ex.debug != nil && ex.debug.Enabled && ex.debug.LogRetries && ex.logger != nil {
			ex.logger.Info("Scheduling retry", "requestID", requestID, "operation", op, "attempt", attempt+1, "backoff", delay)
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, abortError(err)
		}
	}
}

// attempt performs exactly one transport invocation under a composed
// cancellation: the internally owned attempt timer and the caller's signal,
// first to fire wins. The timer and the derived listener are released on
// every exit path; the caller's signal is never mutated.
func (ex *executor) attempt(ctx context.Context, desc *RequestDescriptor) (*Result, cancelmerge.Source, *APIError) {
	attemptCtx, source, stop := cancelmerge.WithTimeout(ctx, desc.Timeout)
	defer stop()

	req, err := desc.httpRequest(attemptCtx, ex.baseURL)
	if err != nil {
		return nil, cancelmerge.None, transportError(err)
	}

	resp, err := ex.transport.Do(req)
	if err != nil {
		src := source()
		return nil, src, classifyFailure(err, src)
	}
	defer resp.Body.Close()

	// Read one byte past the cap so an over-limit body is detectable instead
	// of silently truncated.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		src := source()
		return nil, src, classifyFailure(err, src)
	}
	if len(body) > maxResponseBody {
		return nil, cancelmerge.None, &APIError{
			Kind:       KindNetwork,
			Message:    fmt.Sprintf("response body exceeds %d byte limit", maxResponseBody),
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, cancelmerge.None, classifyResponse(resp)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, cancelmerge.None, nil
}

func (ex *executor) recordOutcome(op string, res *Result, apiErr *APIError, start time.Time) {
	if ex.metrics == nil {
		return
	}
	status := 0
	if res != nil {
		status = res.StatusCode
	}
	if apiErr != nil {
		if apiErr.StatusCode > 0 {
			status = apiErr.StatusCode
		}
		ex.metrics.RecordError(string(apiErr.Kind), op)
	}
	ex.metrics.RecordRequest(op, status, time.Since(start))
}

// classifyFailure maps a transport-level failure to KindNetwork, attributing
// it to the internal timer, the caller's signal or the transport itself.
func classifyFailure(err error, src cancelmerge.Source) *APIError {
	switch src {
	case cancelmerge.Caller:
		return abortError(err)
	case cancelmerge.Timeout:
		return timeoutError(err)
	default:
		return transportError(err)
	}
}

// sleepCtx pauses for d or until ctx fires, releasing the timer either way.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
