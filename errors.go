package langsync

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind identifies the classified outcome of a failed request. The set is
// closed: every error surfaced by the client carries exactly one of these.
type ErrorKind string

const (
	// KindAuthentication means the credential was rejected (401/403).
	KindAuthentication ErrorKind = "AuthenticationError"
	// KindNotFound means the requested resource is absent (404).
	KindNotFound ErrorKind = "NotFoundError"
	// KindRateLimit means the caller exceeded its quota (429 or the
	// client side limiter).
	KindRateLimit ErrorKind = "RateLimitError"
	// KindNetwork covers transport failures, timeouts and caller
	// cancellation. The three sub-cases carry distinct messages.
	KindNetwork ErrorKind = "NetworkError"
)

// Messages for the abort sub-cases sharing KindNetwork.
const (
	msgTimeout = "Request timeout"
	msgAborted = "Request aborted by caller"
)

// APIError is the single error type surfaced by the client.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int // 0 when the failure never produced an HTTP response
	Cause      error

	// retryAfter is a server supplied delay hint (Retry-After header),
	// consulted by the retry loop before falling back to backoff.
	retryAfter time.Duration
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error kinds for errors.Is.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*APIError); ok {
		return e.Kind == targetErr.Kind
	}
	return false
}

// transient reports whether a retry could plausibly succeed. Caller
// cancellation is handled by the executor before this is consulted.
func (e *APIError) transient() bool {
	switch e.Kind {
	case KindRateLimit:
		return true
	case KindNetwork:
		if e.Message == msgAborted {
			return false
		}
		return e.StatusCode == 0 || e.StatusCode >= 500
	default:
		return false
	}
}

// IsAuthentication reports whether err is a credential rejection.
func IsAuthentication(err error) bool { return isKind(err, KindAuthentication) }

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsRateLimit reports whether err is a quota rejection.
func IsRateLimit(err error) bool { return isKind(err, KindRateLimit) }

// IsNetwork reports whether err is a transport failure, timeout or caller
// cancellation.
func IsNetwork(err error) bool { return isKind(err, KindNetwork) }

func isKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// classifyResponse maps a non-2xx HTTP response to its error kind. The
// response body is not consulted; status is authoritative.
func classifyResponse(resp *http.Response) *APIError {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &APIError{Kind: KindAuthentication, Message: "authentication failed", StatusCode: resp.StatusCode}
	case http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Message: "resource not found", StatusCode: resp.StatusCode}
	case http.StatusTooManyRequests:
		return &APIError{
			Kind:       KindRateLimit,
			Message:    "rate limit exceeded",
			StatusCode: resp.StatusCode,
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		apiErr := &APIError{
			Kind:       KindNetwork,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			apiErr.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return apiErr
	}
}

// abortError is the terminal outcome when the caller's own signal fired.
func abortError(cause error) *APIError {
	return &APIError{Kind: KindNetwork, Message: msgAborted, Cause: cause}
}

// timeoutError is the outcome when the internally owned attempt timer fired.
func timeoutError(cause error) *APIError {
	return &APIError{Kind: KindNetwork, Message: msgTimeout, Cause: cause}
}

// transportError preserves the original transport failure message.
func transportError(cause error) *APIError {
	return &APIError{Kind: KindNetwork, Message: cause.Error(), Cause: cause}
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats. Returns 0 when absent or unusable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds > 0 {
			delay := time.Duration(seconds) * time.Second
			if delay > time.Hour {
				delay = time.Hour
			}
			return delay
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}
