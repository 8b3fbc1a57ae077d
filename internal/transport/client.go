// Package transport is the authenticated HTTP client shared by the
// collaborator clients. It applies credentials, optional client-side rate
// limiting and the per-call timeout, and maps error responses onto the
// pkg/errors taxonomy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	service string
	baseURL string
	http    *http.Client
	auth    Authenticator
	limiter *rate.Limiter
	headers http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client. The timeout of the
// supplied client is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New creates a client for service rooted at baseURL.
func New(service, baseURL string, auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the name used in errors and logs.
func (c *Client) Service() string {
	return c.service
}

// URL joins path and query onto the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do performs an HTTP request with authentication applied and context support.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &errors.APIError{
				Service:  c.service,
				Endpoint: req.URL.Path,
				Message:  "rate limiter: " + err.Error(),
				Err:      err,
			}
		}
	}

	c.auth.Apply(req)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Ctx(ctx).Debug().
		Str("service", c.service).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("HTTP request")

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, errors.NewTimeoutError(req.Method+" "+req.URL.Path, c.http.Timeout.String(), err.Error())
		}
		return nil, &errors.APIError{
			Service:  c.service,
			Endpoint: req.URL.Path,
			Message:  err.Error(),
			Err:      err,
		}
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, query), nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+path, err)
	}
	return c.Do(ctx, req)
}

// Send performs a request with a JSON-encoded body.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", method+" "+path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, nil), reader)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+path, err)
	}
	return c.Do(ctx, req)
}

// GetJSON performs a GET request and decodes the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	return c.authError(DecodeResponse(resp, c.service, target))
}

// GetBody performs a GET request and returns the raw response body.
func (c *Client) GetBody(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	body, err := ReadBody(resp, c.service)
	return body, c.authError(err)
}

// PostJSON sends body as JSON and decodes the response into target.
func (c *Client) PostJSON(ctx context.Context, path string, body, target any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, target)
}

// PatchJSON sends body as JSON and decodes the response into target.
func (c *Client) PatchJSON(ctx context.Context, path string, body, target any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, target)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.Send(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.authError(DecodeResponse(resp, c.service, target))
}

// authError turns a rejected-credentials API error into an AuthenticationError.
func (c *Client) authError(err error) error {
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return errors.NewAuthenticationError(c.service, c.auth.Method(), "credentials rejected", apiErr)
	}
	return err
}
