package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of a response is read into memory
const maxBodyBytes = 16 << 20

// Client talks to the BabImmob REST API. A Client is safe for concurrent use;
// WithToken returns a copy bound to one caller's bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request traces
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL, e.g. http://localhost:8000/api
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that sends token as bearer credentials
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Token returns the bearer token of c
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes a 2xx body into out, unwrapping {"data": ...}.
// out may be nil when the body is not needed.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, err := c.DoRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// DoRaw sends one request and returns the 2xx body untouched
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	resp, err := c.Stream(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return raw, nil
}

// Stream sends one request and hands back the open 2xx response; the caller closes
// the body. Used to proxy binary documents such as contract PDFs.
func (c *Client) Stream(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	enc, err := encode(method, body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, enc.method, c.url(path, query), enc.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if enc.contentType != "" {
		req.Header.Set("Content-Type", enc.contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", enc.method).Str("path", path).Msg("api request failed")
		return nil, fmt.Errorf("%s %s: %w", enc.method, path, err)
	}

	c.log.Debug().
		Str("method", enc.method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	return nil, parseError(resp.StatusCode, raw)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func parseError(status int, raw []byte) *Error {
	var body errorBody
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &body) == nil {
		return body.toError(status)
	}
	return &Error{Status: status}
}

// decode unmarshals raw into out, unwrapping a top-level data envelope when present
func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if inner, ok := envelope(raw); ok {
		raw = inner
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func envelope(raw []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Data) == 0 {
		return nil, false
	}
	return env.Data, true
}
