package langsync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RequestDescriptor is an immutable description of one logical API call.
// It is built once per call and never mutated by the executor.
type RequestDescriptor struct {
	// Operation is a stable name for logs and metric labels,
	// e.g. "translations.list". It does not participate in the fingerprint.
	Operation string

	Method string
	// Path is the resolved resource path, every segment escaped with
	// url.PathEscape.
	Path  string
	Query url.Values
	// Body is the JSON payload for mutating calls; nil otherwise.
	Body any

	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// MaxAttempts is the total attempt budget, at least 1.
	MaxAttempts int

	// Cacheable marks read-only fetches eligible for caching and
	// de-duplication. Mutating calls must leave it false.
	Cacheable bool
	CacheTTL  time.Duration
}

// Fingerprint derives the deterministic key identifying this logical request
// for cache and de-duplication purposes. Equivalent payloads with different
// key order produce identical fingerprints.
func (d *RequestDescriptor) Fingerprint() string {
	h := fnv.New64a()
	io.WriteString(h, d.Method)
	h.Write([]byte{0})
	io.WriteString(h, d.Path)
	h.Write([]byte{0})
	// url.Values.Encode emits keys in sorted order.
	io.WriteString(h, d.Query.Encode())

	if d.Body != nil {
		if raw, err := canonicalJSON(d.Body); err == nil {
			sum := sha256.Sum256(raw)
			h.Write(sum[:])
		}
	}

	return fmt.Sprintf("%x", h.Sum64())
}

// canonicalJSON serializes v with object keys in a stable order: the payload
// is marshaled, reparsed into generic maps and marshaled again, since
// encoding/json emits map keys sorted.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// httpRequest materializes the descriptor into an *http.Request bound to ctx.
// Path carries already-escaped segments; JoinPath keeps URL.Path and
// URL.RawPath consistent so reserved characters in resource names reach the
// wire escaped exactly once.
func (d *RequestDescriptor) httpRequest(ctx context.Context, base *url.URL) (*http.Request, error) {
	u := base.JoinPath(d.Path)
	if len(d.Query) > 0 {
		u.RawQuery = d.Query.Encode()
	}

	var body io.Reader
	if d.Body != nil {
		raw, err := json.Marshal(d.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if d.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
