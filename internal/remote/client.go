package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/roach88/atelier/internal/query"
)

// DefaultTimeout bounds every remote collection round trip.
const DefaultTimeout = 15 * time.Second

// Client speaks to the remote collection store over HTTP.
//
// The store exposes one JSON endpoint per collection:
//
//	GET    /api/collections/{name}/records?filter=…&sort=…
//	POST   /api/collections/{name}/records
//	PATCH  /api/collections/{name}/records/{id}
//	DELETE /api/collections/{name}/records/{id}
//
// List responses arrive in an {"items": […]} envelope.
//
// Thread-safety: Client is stateless after construction and safe for
// concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default round-trip timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a Client for the store at baseURL. The token, when non-empty,
// is sent as a bearer credential on every request.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listEnvelope is the wire shape of a list response.
type listEnvelope struct {
	Items []json.RawMessage `json:"items"`
}

// List fetches raw records from a collection, optionally filtered and
// sorted server-side.
func (c *Client) List(ctx context.Context, collection string, opts query.Options) ([]json.RawMessage, error) {
	if err := opts.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	u := c.recordsURL(collection, "")
	if params := opts.Params(); len(params) > 0 {
		u += "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, u, nil, "list", collection)
	if err != nil {
		return nil, err
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		slog.Debug("list response decode failed", "collection", collection, "error", err)
		return nil, newError(ErrCodeNetwork, "list", collection)
	}
	return env.Items, nil
}

// Create inserts a record and returns the server-confirmed raw record.
func (c *Client) Create(ctx context.Context, collection string, payload any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPost, c.recordsURL(collection, ""), payload, "create", collection)
}

// Update patches a record and returns the server-confirmed raw record.
func (c *Client) Update(ctx context.Context, collection, id string, payload any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPatch, c.recordsURL(collection, id), payload, "update", collection)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.recordsURL(collection, id), nil, "delete", collection)
	return err
}

// write issues a mutating request with a JSON body and decodes nothing;
// the raw response body is returned for the caller to unmarshal.
func (c *Client) write(ctx context.Context, method, u string, payload any, op, collection string) (json.RawMessage, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		slog.Debug("payload encode failed", "collection", collection, "op", op, "error", err)
		return nil, newError(ErrCodeValidation, op, collection)
	}
	return c.do(ctx, method, u, encoded, op, collection)
}

// do performs one HTTP round trip and maps failures to the single generic
// error for the operation kind. The remote's own error body is logged at
// debug level but never surfaced.
func (c *Client) do(ctx context.Context, method, u string, body []byte, op, collection string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, newError(ErrCodeNetwork, op, collection)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("remote request failed", "collection", collection, "op", op, "error", err)
		return nil, newError(ErrCodeNetwork, op, collection)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("remote response read failed", "collection", collection, "op", op, "error", err)
		return nil, newError(ErrCodeNetwork, op, collection)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusNotFound:
		slog.Debug("remote not found", "collection", collection, "op", op, "status", resp.StatusCode)
		return nil, newError(ErrCodeNotFound, op, collection)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		slog.Debug("remote rejected payload",
			"collection", collection,
			"op", op,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, newError(ErrCodeValidation, op, collection)
	default:
		slog.Debug("remote request failed",
			"collection", collection,
			"op", op,
			"status", resp.StatusCode,
		)
		return nil, newError(ErrCodeNetwork, op, collection)
	}
}

// recordsURL builds the records endpoint for a collection, with an optional
// record ID path segment.
func (c *Client) recordsURL(collection, id string) string {
	u := c.baseURL + "/api/collections/" + url.PathEscape(collection) + "/records"
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}
