// Package api talks to the Traveline REST backend.
//
// Every request goes through Client.Do, which attaches the operator's bearer
// token when one is stored, tags the request with an X-Request-Id, and maps
// the response onto Error, TransportError or ParseError.
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

	"github.com/google/uuid"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const HeaderRequestID = "X-Request-Id"

// DefaultMaxResponseBytes caps how much of a backend response is read.
const DefaultMaxResponseBytes int64 = 8 << 20

type requestIDKey struct{}

// WithRequestID makes outgoing requests made with ctx reuse id instead of
// minting a fresh one, so console and backend logs line up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored by WithRequestID, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// TokenSource supplies the current access token, or "" when there is none.
type TokenSource interface {
	AccessToken() string
}

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	validator *Validator
	maxBody   int64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithMaxResponseBytes replaces DefaultMaxResponseBytes. Non-positive values are ignored.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("[Client New] invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[Client New] base url %q must be absolute", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		baseURL:   u,
		http:      &http.Client{},
		tokens:    tokens,
		validator: NewValidator(),
		maxBody:   DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Anonymous sends the request without a bearer header even when a token
	// is stored.
	Anonymous bool
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do sends req and, when out is non-nil, decodes and validates the response
// body into it.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.url(req.Path, req.Query)

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("[Client Do] failed to encode %s %s body: %w", method, req.Path, err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("[Client Do] failed to build %s %s: %w", method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(HeaderRequestID, requestID)

	authenticated := false
	if !req.Anonymous && c.tokens != nil {
		if accessToken := c.tokens.AccessToken(); accessToken != "" {
			(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(httpReq)
			authenticated = true
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Str("method", method).Str("path", req.Path).Msg("Backend request failed")
		return &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: err}
	}
	if int64(len(respBody)) > c.maxBody {
		return &ParseError{Path: req.Path, Err: errors.Wrapf(errors.ErrResponseTooLarge, "status %d, limit %d bytes", resp.StatusCode, c.maxBody)}
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", req.Path).
		Bool("authenticated", authenticated).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := c.validator.Decode(respBody, out); err != nil {
		return &ParseError{Path: req.Path, Err: err}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}
