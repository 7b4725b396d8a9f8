// Package pokeapi is a typed client for the public creature catalog API.
// It exposes the two endpoints the rest of dex needs: the full index and the
// per-name detail record.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pokedex/internal/logging"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 8 << 20

// Source is the read surface of the catalog API.
type Source interface {
	// FetchIndex returns one page of index records.
	FetchIndex(ctx context.Context, offset, limit int) ([]IndexRecord, error)

	// FetchDetail returns the detail record for a name.
	FetchDetail(ctx context.Context, name string) (*Detail, error)
}

// Client talks to the catalog API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout applies a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a client rooted at baseURL (e.g. https://pokeapi.co/api/v2).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		userAgent:  "dex/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchIndex issues GET <base>/pokemon/?offset=<offset>&limit=<limit>.
func (c *Client) FetchIndex(ctx context.Context, offset, limit int) ([]IndexRecord, error) {
	u := fmt.Sprintf("%s/pokemon/?offset=%d&limit=%d", c.baseURL, offset, limit)
	logging.APIDebug("Fetch index: offset=%d limit=%d", offset, limit)

	body, err := c.get(ctx, "fetch index", u)
	if err != nil {
		return nil, err
	}

	var resp indexResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Op: "fetch index", URL: u, Err: err}
	}
	if resp.Results == nil {
		return nil, &ParseError{Op: "fetch index", URL: u, Err: ErrMissingResults}
	}

	logging.API("Index fetched: %d records", len(*resp.Results))
	return *resp.Results, nil
}

// FetchDetail issues GET <base>/pokemon/<name>.
func (c *Client) FetchDetail(ctx context.Context, name string) (*Detail, error) {
	u := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(name))
	logging.APIDebug("Fetch detail: %s", name)

	body, err := c.get(ctx, "fetch detail", u)
	if err != nil {
		return nil, err
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Op: "fetch detail", URL: u, Err: err}
	}
	if resp.Name == "" {
		return nil, &ParseError{Op: "fetch detail", URL: u, Err: errors.New("record has no name")}
	}

	return resp.flatten(), nil
}

func (c *Client) get(ctx context.Context, op, u string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: u, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("%s %s failed: %v", op, u, err)
		return nil, &NetworkError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.APIError("%s %s: HTTP %d", op, u, resp.StatusCode)
		return nil, &NetworkError{Op: op, URL: u, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Op: op, URL: u, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}
