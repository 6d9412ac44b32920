// Package backend is the typed REST client of the network services backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "http://localhost:8088/api"
	defaultTimeout = 30 * time.Second
)

type tokenKey struct{}

// WithToken returns a context whose backend calls carry the bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored by WithToken, if any.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Config captures the settings of a backend Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client performs JSON calls against the backend. GET requests are retried
// once on any failure; other methods are sent exactly once.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client. Defaults are applied for an empty base URL and a
// non-positive timeout.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: base,
		http:    hc,
		log:     log.With().Str("component", "backend").Logger(),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method string
	path   string
	route  string // metric label, e.g. "/orders/{id}"
	query  url.Values
	body   any
}

func (c *Client) get(ctx context.Context, path, route string, query url.Values) (json.RawMessage, error) {
	req := request{method: http.MethodGet, path: path, route: route, query: query}
	raw, err := c.do(ctx, req)
	if err == nil || ctx.Err() != nil {
		return raw, err
	}

	metrics.BackendRetriesTotal.Inc()
	c.log.Warn().Err(err).Str("endpoint", route).Msg("retrying backend request")
	return c.do(ctx, req)
}

func (c *Client) send(ctx context.Context, method, path, route string, body any) (json.RawMessage, error) {
	return c.do(ctx, request{method: method, path: path, route: route, body: body})
}

func (c *Client) do(ctx context.Context, r request) (json.RawMessage, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", r.method, r.route, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, clientError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(r.method, r.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(r.method, r.route, "error").Inc()
		c.log.Error().Err(err).Str("method", r.method).Str("endpoint", r.route).Msg("backend unreachable")
		return nil, clientError(err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(r.method, r.route, strconv.Itoa(resp.StatusCode)).Inc()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clientError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classify(resp.StatusCode, statusText(resp), payload)
		c.log.Debug().
			Str("method", r.method).
			Str("endpoint", r.route).
			Int("status", resp.StatusCode).
			Str("code", apiErr.Code).
			Msg("backend request failed")
		return nil, apiErr
	}

	c.log.Debug().Str("method", r.method).Str("endpoint", r.route).Int("status", resp.StatusCode).Msg("backend request")
	return unwrap(payload), nil
}

// unwrap strips the {data, success|timestamp|message} envelope some endpoints
// answer with. Any other body is returned unchanged.
func unwrap(payload []byte) json.RawMessage {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return payload
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(payload, &env); err != nil {
		return payload
	}
	data, ok := env["data"]
	if !ok {
		return payload
	}
	// A normalized page keeps its pagination block next to data.
	if _, paged := env["pagination"]; paged {
		return payload
	}
	for _, marker := range []string{"success", "timestamp", "message"} {
		if _, ok := env[marker]; ok {
			return data
		}
	}
	return payload
}

// decode unmarshals an unwrapped body into a T. An empty body yields the zero value.
func decode[T any](raw json.RawMessage, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	var out T
	if len(raw) == 0 || string(raw) == "null" {
		return &out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode backend response: %w", err)
	}
	return &out, nil
}

// decodeList is decode for JSON arrays; a missing body yields an empty slice.
func decodeList[T any](raw json.RawMessage, err error) ([]T, error) {
	out, err := decode[[]T](raw, err)
	if err != nil {
		return nil, err
	}
	if *out == nil {
		return []T{}, nil
	}
	return *out, nil
}

// Ping reports whether the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/services/types", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// IsClientError reports whether err is a failure that never reached the backend.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeClientError
}
