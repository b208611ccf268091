// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "go-github-api"
	acceptHeader     = "application/vnd.github+json"
	apiVersion       = "2022-11-28"
	scopeName        = "github.com/andrewkroh/go-github-api/api"
)

// HTTPTransport is the Transport implementation that talks to the GitHub
// API over HTTP.
type HTTPTransport struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        *slog.Logger

	tracer   trace.Tracer
	requests metric.Int64Counter

	mu          sync.RWMutex
	creds       *Credentials
	tokenClient *http.Client
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithBaseURL sets the base URL for the GitHub API.
func WithBaseURL(url string) Option {
	return func(t *HTTPTransport) {
		t.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *HTTPTransport) {
		t.httpClient = hc
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *HTTPTransport) {
		t.log = l
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// NewHTTPTransport creates a new HTTPTransport with the given options.
// By default it uses https://api.github.com as the base URL,
// http.DefaultClient, and slog.Default() as the logger.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		log:        slog.Default(),
		tracer:     otel.Tracer(scopeName),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.requests, _ = otel.Meter(scopeName).Int64Counter("github_api.requests",
		metric.WithDescription("Number of GitHub API requests by method and status class"),
	)
	return t
}

// SetCredentials makes subsequent requests authenticate with c. Tokens
// are sent through an oauth2 transport; username/password pairs use
// HTTP basic auth.
func (t *HTTPTransport) SetCredentials(c Credentials) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.creds = &c
	t.tokenClient = nil
	if c.IsToken() {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, t.httpClient)
		t.tokenClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token}))
	}
}

// ClearCredentials makes subsequent requests anonymous.
func (t *HTTPTransport) ClearCredentials() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.creds = nil
	t.tokenClient = nil
}

// Get performs a GET request with params encoded in the query string.
func (t *HTTPTransport) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return t.do(ctx, http.MethodGet, path, params, nil)
}

// Put performs a PUT request with body encoded as JSON.
func (t *HTTPTransport) Put(ctx context.Context, path string, body any) (*Response, error) {
	return t.do(ctx, http.MethodPut, path, nil, body)
}

// Patch performs a PATCH request with body encoded as JSON.
func (t *HTTPTransport) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return t.do(ctx, http.MethodPatch, path, nil, body)
}

// Delete performs a DELETE request. A non-nil body is encoded as JSON.
func (t *HTTPTransport) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return t.do(ctx, http.MethodDelete, path, nil, body)
}

// Post performs a POST request with body encoded as JSON.
func (t *HTTPTransport) Post(ctx context.Context, path string, body any) (*Response, error) {
	return t.do(ctx, http.MethodPost, path, nil, body)
}

// client returns the HTTP client and basic-auth credentials to use for
// the next request.
func (t *HTTPTransport) client() (*http.Client, *Credentials) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.tokenClient != nil {
		return t.tokenClient, nil
	}
	return t.httpClient, t.creds
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, params url.Values, body any) (*Response, error) {
	ctx, span := t.tracer.Start(ctx, "github."+strings.ToLower(method))
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.String("github.request.id", requestID),
	)
	ctx = ContextWithRequestID(ctx, requestID)
	log := t.log.With(slog.String("method", method), slog.String("path", path))

	fail := func(msg string, err error) (*Response, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, msg, slog.String("error", err.Error()))
		t.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("status", "error"),
		))
		return nil, err
	}

	fullURL := t.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail("failed to encode request body", fmt.Errorf("github: encoding request body: %w", err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fail("failed to create request", fmt.Errorf("github: creating request: %w", err))
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", t.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc, basic := t.client()
	if basic != nil {
		req.SetBasicAuth(basic.Username, basic.Password)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fail("request failed", fmt.Errorf("github: executing request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	// Check for rate limiting before reading the body.
	if err := checkRateLimit(resp); err != nil {
		log.WarnContext(ctx, "rate limited by GitHub API")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("status", "rate_limited"),
		))
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("failed to read response", fmt.Errorf("github: reading response body: %w", err))
	}

	t.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", statusClass(resp.StatusCode)),
	))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		log.WarnContext(ctx, "error response", slog.Int("status", resp.StatusCode))
	} else {
		log.DebugContext(ctx, "request completed", slog.Int("status", resp.StatusCode))
	}

	return &Response{Status: resp.StatusCode, Data: bytes.TrimSpace(data)}, nil
}

// checkRateLimit inspects an error response for GitHub rate limit
// exhaustion. Returns ErrRateLimited on HTTP 429, or on 403 when
// X-RateLimit-Remaining is "0".
func checkRateLimit(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusForbidden {
		return nil
	}
	n, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	if err != nil {
		return nil
	}
	if n == 0 {
		return ErrRateLimited
	}
	return nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
