package langsync

import (
	"net/http"
)

// Transport executes a single HTTP exchange. Implementations must honor
// cancellation of the request's context (aborting the in-flight call when it
// fires) and must surface non-2xx responses as responses, not errors, so the
// classifier can tell HTTP-level failures apart from transport failures.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(*http.Request) (*http.Response, error)

// Do implements Transport.
func (f TransportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a Transport for cross-cutting concerns (tracing, test
// fakes, header injection). Middleware runs in registration order, outermost
// first.
type Middleware func(req *http.Request, next Transport) (*http.Response, error)

// chain composes middleware around base, rightmost middleware closest to the
// transport.
func chain(base Transport, middleware []Middleware) Transport {
	current := base
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := current
		current = TransportFunc(func(r *http.Request) (*http.Response, error) {
			return mw(r, next)
		})
	}
	return current
}

// authMiddleware injects the API credential and project scope on every
// outgoing request. Installed innermost so user middleware observes the final
// request.
func authMiddleware(apiKey, projectID string) Middleware {
	return func(req *http.Request, next Transport) (*http.Response, error) {
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("X-Project-Id", projectID)
		return next.Do(req)
	}
}
