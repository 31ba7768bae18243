// Package advisoryclient is a Go client for the advisory API. It mirrors
// the behavior expected of frontends: one outstanding advisory request at
// a time, graceful degradation when the backend is unreachable, and a
// cached-or-canned fallback for the updates feed.
package advisoryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/krushisathi/krushi-sathi/internal/domain/advisory"
	"github.com/krushisathi/krushi-sathi/pkg/offline"
)

// ErrRequestInFlight is returned when Advise is called while a previous
// call is still outstanding.
var ErrRequestInFlight = errors.New("advisory request already in flight")

// FallbackPolicy selects what Advise returns when the backend cannot
// produce an advisory.
type FallbackPolicy int

const (
	// FallbackUnavailable returns a localized "service unavailable"
	// advisory with retry guidance.
	FallbackUnavailable FallbackPolicy = iota
	// FallbackTemplate synthesizes a localized template advisory from
	// the question, as if the backend had no AI configured.
	FallbackTemplate
)

// Client calls the advisory API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     FallbackPolicy
	cache      *offline.Cache
	responder  *offline.Responder
	inFlight   atomic.Bool
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFallbackPolicy selects the advisory fallback behavior.
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger.With("component", "advisoryclient") }
}

// New constructs a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		policy:     FallbackUnavailable,
		cache:      offline.NewCache("v1"),
		responder:  offline.NewResponder(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Advise requests an advisory for the given question and optional photo.
// Only one call may be outstanding at a time. When the backend is
// unreachable or replies with garbage the configured fallback policy
// produces a usable advisory instead of an error.
func (c *Client) Advise(ctx context.Context, req advisory.Request) (advisory.Response, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return advisory.Response{}, ErrRequestInFlight
	}
	defer c.inFlight.Store(false)

	resp, err := c.postAdvisory(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return advisory.Response{}, ctx.Err()
		}
		c.logger.Warn("advisory request failed, applying fallback", "error", err)
		return c.fallback(req), nil
	}
	return resp, nil
}

func (c *Client) postAdvisory(ctx context.Context, req advisory.Request) (advisory.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return advisory.Response{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/advisory", bytes.NewReader(body))
	if err != nil {
		return advisory.Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return advisory.Response{}, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return advisory.Response{}, fmt.Errorf("advisory API returned status %d", httpResp.StatusCode)
	}

	var resp advisory.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return advisory.Response{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Title == "" && resp.Text == "" {
		return advisory.Response{}, errors.New("empty advisory payload")
	}
	return resp, nil
}

func (c *Client) fallback(req advisory.Request) advisory.Response {
	if c.policy == FallbackTemplate {
		return advisory.Template(req.Lang, req.Question)
	}
	return advisory.Unavailable(req.Lang)
}

// Updates fetches the weather/market/schemes feed. Successful payloads
// refresh the offline cache; failures fall back to the last cached copy
// and finally to a canned offline payload.
func (c *Client) Updates(ctx context.Context, lat, lon *float64) (json.RawMessage, error) {
	path := "/api/updates"
	query := url.Values{}
	if lat != nil {
		query.Set("lat", strconv.FormatFloat(*lat, 'f', -1, 64))
	}
	if lon != nil {
		query.Set("lon", strconv.FormatFloat(*lon, 'f', -1, 64))
	}
	target := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	payload, err := c.getJSON(ctx, target)
	if err == nil {
		c.cache.Put(path, payload)
		return payload, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.logger.Warn("updates request failed, serving fallback", "error", err)
	if cached, ok := c.cache.Get(path); ok {
		return cached, nil
	}
	if canned, ok := c.responder.Payload(path); ok {
		return canned, nil
	}
	return nil, err
}

func (c *Client) getJSON(ctx context.Context, target string) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("updates API returned status %d", httpResp.StatusCode)
	}
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errors.New("invalid JSON payload")
	}
	return body, nil
}
