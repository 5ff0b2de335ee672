// Package highlevel is a thin typed client for the HighLevel (LeadConnector)
// custom field and custom value endpoints.
package highlevel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Observer receives one call per upstream round trip. Status is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type Config struct {
	BaseURL   string
	Version   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Observer  Observer
}

// Client issues bearer-authenticated JSON requests. A zero-token Client is a
// template; use WithToken to bind a credential.
type Client struct {
	baseURL  string
	version  string
	token    string
	observer Observer
	c        *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		version:  strings.TrimSpace(cfg.Version),
		observer: cfg.Observer,
		c: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
	}
}

// WithToken returns a copy of c that authenticates with token. The underlying
// http.Client is shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = strings.TrimSpace(token)
	return &cp
}

// Request describes one API call
type Request struct {
	Method string
	Path   string
	// Route is the path template used for metrics; defaults to Path.
	Route   string
	Query   url.Values
	Body    any
	Version string
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("highlevel: API error %d %s: %s", e.StatusCode, e.Status, strings.TrimSpace(e.Body))
}

// Do performs req and decodes a successful JSON response into out (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("highlevel: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("User-Agent", "mcp-crmfields")
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if req.Version != "" {
		httpReq.Header.Set("Version", req.Version)
	}

	route := req.Route
	if route == "" {
		route = req.Path
	}
	start := time.Now()

	resp, err := c.c.Do(httpReq)
	if err != nil {
		c.observe(req.Method, route, 0, start)
		return fmt.Errorf("highlevel: %s %s: %w", req.Method, route, err)
	}
	defer resp.Body.Close()
	c.observe(req.Method, route, resp.StatusCode, start)

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("highlevel: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(b),
		}
	}

	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("highlevel: decode response: %w", err)
	}
	return nil
}

func (c *Client) observe(method, route string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, route, status, time.Since(start))
	}
}

func statusText(resp *http.Response) string {
	s := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if s == "" {
		s = http.StatusText(resp.StatusCode)
	}
	return s
}

// versioned builds a request carrying the client's API version header
func (c *Client) versioned(method, route, path string, query url.Values, body any) Request {
	return Request{
		Method:  method,
		Path:    path,
		Route:   route,
		Query:   query,
		Body:    body,
		Version: c.version,
	}
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("highlevel: %s is required", kind)
	}
	return nil
}
