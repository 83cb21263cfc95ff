// Package remote posts activities to the remote calculation service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kilianp07/footprint/auth"
	"github.com/kilianp07/footprint/core/model"
	"github.com/kilianp07/footprint/core/resolve"
)

// Client implements resolve.Remote over HTTP. It never retries; the
// resolver owns the fallback decision.
type Client struct {
	url     string
	http    *http.Client
	auth    auth.Authorizer
	maxBody int64
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAuthorizer attaches credentials to every request.
func WithAuthorizer(a auth.Authorizer) Option {
	return func(c *Client) { c.auth = a }
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.SetDefaults()
	c := &Client{
		url:     cfg.URL,
		http:    &http.Client{},
		maxBody: cfg.MaxBodyBytes,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compute posts a as JSON. Non-2xx responses are returned as a Response,
// not an error.
func (c *Client) Compute(ctx context.Context, a model.Activity) (resolve.Response, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return resolve.Response{}, fmt.Errorf("failed to encode activity: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return resolve.Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		if err := c.auth.SetAuthHeader(ctx, req); err != nil {
			return resolve.Response{}, fmt.Errorf("failed to set auth header: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return resolve.Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return resolve.Response{}, fmt.Errorf("failed to read response: %w", err)
	}
	return resolve.Response{StatusCode: resp.StatusCode, Body: body}, nil
}

var _ resolve.Remote = (*Client)(nil)
