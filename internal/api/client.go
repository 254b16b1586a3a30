// Package api wraps outbound HTTP calls to the ScamShield backend, attaching
// the current wallet address as an identity header and classifying failures
// once at the client boundary.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scamshield/scamshield/internal/config"
)

// Client issues requests to the report/dashboard/merchant API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	identity    Identity
	rl          *RateLimiter
	onAuthError func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthFailureHandler registers the mandatory 401 side effect: clear the
// wallet session and send the user back to the landing page. Pages cannot
// skip it — it runs inside the client before the error is returned.
func WithAuthFailureHandler(fn func()) Option {
	return func(c *Client) { c.onAuthError = fn }
}

// WithRateLimit overrides the default outgoing request rate.
func WithRateLimit(rps int) Option {
	return func(c *Client) { c.rl = NewRateLimiter("api", rps) }
}

// NewClient creates a client for the API at baseURL. identity supplies the
// wallet address for the X-Wallet-Address header; it may be nil for an
// anonymous client.
func NewClient(baseURL string, identity Identity, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: config.APITimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		identity:   identity,
		rl:         NewRateLimiter("api", config.RateLimitAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one request and decodes a successful JSON response into out
// (when out is non-nil). Failures are returned as exactly one of the typed
// errors in this package.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &NetworkError{Err: err}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.identity != nil {
		if addr := c.identity.WalletAddress(); addr != "" {
			req.Header.Set(config.WalletAddressHeader, addr)
		}
	}

	slog.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("api request failed", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		slog.Warn("api unauthorized, clearing wallet session", "path", path)
		if c.onAuthError != nil {
			c.onAuthError()
		}
		return &AuthError{Message: detailMessage(resp.Body)}

	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header)}

	case resp.StatusCode >= 500:
		msg := detailMessage(resp.Body)
		slog.Error("api server error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", msg,
		)
		return &ServerError{Status: resp.StatusCode, Message: msg}

	case resp.StatusCode >= 400:
		return &ValidationError{
			Status: resp.StatusCode,
			Fields: decodeFieldErrors(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("encode request: %w", err)}
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json", out)
}

// decodeFieldErrors reads a 4xx body into per-field messages. The backend
// responds either {"detail": "..."} or {"field": ["msg", ...]}.
func decodeFieldErrors(r io.Reader) map[string]string {
	var raw map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil
	}

	fields := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			fields[key] = v
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				fields[key] = strings.Join(parts, " ")
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// detailMessage extracts a {"detail": "..."} message, or "" when the body is
// not in that shape.
func detailMessage(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

// parseRetryAfter extracts a duration from the Retry-After response header.
// Supports seconds format and HTTP-date format. Returns 0 if the header is
// missing, unparseable, or in the past.
func parseRetryAfter(header http.Header) time.Duration {
	val := header.Get("Retry-After")
	if val == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}
