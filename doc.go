// Package langsync is the Go SDK for the LangSync translation-management API.
//
// The client wraps every resource call in a small orchestration core:
//
//   - In-memory response caching with per-entry TTL expiry
//   - De-duplication of concurrent identical requests (one network attempt,
//     one shared outcome for every caller)
//   - Per-attempt timeouts composed with the caller's own context so that
//     neither cancellation source leaks into the other
//   - Bounded retries with exponential backoff + jitter
//   - Client side rate limiting (token bucket)
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - A closed error taxonomy callers can switch on (ErrorKind)
//
// Typical usage:
//
//	client, err := langsync.New(apiKey, projectID,
//	    langsync.WithTimeout(5*time.Second),
//	    langsync.WithRetries(2),
//	    langsync.WithCacheTTL(10*time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	translations, err := client.Translations(ctx, "de")
//
// Failed calls surface an *APIError carrying one of four kinds:
// AuthenticationError, NotFoundError, RateLimitError or NetworkError. Timeout,
// caller cancellation and transport failures all share NetworkError and are
// distinguished by message only, an intentionally coarse taxonomy.
package langsync
