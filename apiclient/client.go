package apiclient

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

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	contentTypeJSON  = "application/json"
	maxResponseBytes = 10 << 20
)

// Client performs every call the storefront makes to the REST backend.
// It does not retry, cache or de-duplicate requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every call; zero means no client-side timeout. The
// timeout is set on a copy so a shared *http.Client is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// HTTPClient returns the *http.Client used for backend calls.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// New creates a client for the backend at baseURL (e.g. "http://localhost:8000").
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes a single backend operation
type call struct {
	method   string
	path     string
	token    string // Bearer token, empty for anonymous calls
	body     any
	fallback string
}

// do executes the call and decodes a successful response into out. A *[]byte
// out receives the raw body undecoded. Every failure comes back as an *Error.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	fail := func(status int, body []byte, err error) *Error {
		return &Error{
			Method:  cl.method,
			Path:    cl.path,
			Status:  status,
			Body:    structuredBody(body),
			Message: cl.fallback,
			Err:     err,
		}
	}

	var reqBody io.Reader
	if cl.body != nil {
		encoded, err := json.Marshal(cl.body)
		if err != nil {
			return fail(0, nil, fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reqBody)
	if err != nil {
		return fail(0, nil, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", contentTypeJSON)
	if reqBody != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if cl.token != "" {
		(&oauth2.Token{AccessToken: cl.token}).SetAuthHeader(req)
	}

	log.Debug().Str("method", cl.method).Str("path", cl.path).Bool("auth", cl.token != "").Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", cl.method).Str("path", cl.path).Msg("api transport failure")
		return fail(0, nil, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(resp.StatusCode, nil, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := fail(resp.StatusCode, body, nil)
		log.Debug().Int("status", resp.StatusCode).Str("method", cl.method).Str("path", cl.path).
			Bool("structured", apiErr.Structured()).Msg("api error response")
		return apiErr
	}

	if raw, ok := out.(*[]byte); ok {
		*raw = body
		return nil
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fail(resp.StatusCode, nil, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// pathf builds a backend path, escaping every argument as a path segment.
func pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}
