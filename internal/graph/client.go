package graph

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RyanLisse/flok/internal/logging"
)

const (
	// DefaultBaseURL is the Microsoft Graph API root.
	DefaultBaseURL = "https://graph.microsoft.com"

	// DefaultAPIVersion is the Graph API version prefix.
	DefaultAPIVersion = "v1.0"

	// maxAttempts bounds the total number of requests issued for a single
	// logical call, including the first attempt.
	maxAttempts = 3

	defaultRetryAfter     = 5 * time.Second
	maxRetryAfter         = 60 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// TokenProvider supplies a valid bearer token for outbound requests.
// It is implemented by auth.Manager bound to an account; resolving a token
// may block while a refresh or login is in flight.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// MetricsRecorder receives request outcomes. Implemented by
// instrumentation.Metrics; a nil recorder disables recording.
type MetricsRecorder interface {
	RecordGraphRequest(ctx context.Context, method string, status int, retries int, duration time.Duration)
}

// Client is an HTTP client for the Microsoft Graph API. It attaches bearer
// tokens from its TokenProvider, retries transient failures (429, 5xx,
// network errors) within a bounded budget, and follows server-driven
// pagination via Paginate.
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	baseURL    string
	logger     *slog.Logger
	metrics    MetricsRecorder

	// sleep is replaced in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithBaseURL overrides the full base URL including the version prefix.
// Used for tests and sovereign-cloud endpoints.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Graph client backed by the given token provider.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		tokens:     tokens,
		baseURL:    DefaultBaseURL + "/" + DefaultAPIVersion,
		logger:     slog.Default(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request against path with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.buildURL(path, query), nil, nil)
}

// Post issues a POST request with a JSON body (may be nil).
func (c *Client) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, c.buildURL(path, nil), body, nil)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, c.buildURL(path, nil), body, nil)
}

// Put issues a PUT request with a body.
func (c *Client) Put(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPut, c.buildURL(path, nil), body, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, c.buildURL(path, nil), nil, nil)
	return err
}

// Raw issues an arbitrary request. It is the escape hatch for Graph
// endpoints that have no dedicated client method.
func (c *Client) Raw(ctx context.Context, method, path string, query url.Values, body []byte, headers map[string]string) ([]byte, error) {
	return c.do(ctx, strings.ToUpper(method), c.buildURL(path, query), body, headers)
}

// buildURL joins path onto the client's base URL. A path that is already an
// absolute URL (a pagination nextLink) is used verbatim; the query must not
// be merged into it.
func (c *Client) buildURL(path string, query url.Values) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

var tracer = otel.Tracer("github.com/RyanLisse/flok/internal/graph")

// do executes a request with the retry policy:
//   - 429: sleep Retry-After (default 5s, capped at 60s), retry
//   - 5xx and network errors: exponential backoff (2^attempt seconds), retry
//   - everything else: classified once, never retried
//
// The total number of requests issued is bounded by maxAttempts.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "graph."+strings.ToLower(method),
		trace.WithAttributes(attribute.String("http.method", method)))
	defer span.End()

	start := time.Now()
	var lastStatus int
	record := func(retries int) {
		if c.metrics != nil {
			c.metrics.RecordGraphRequest(ctx, method, lastStatus, retries, time.Since(start))
		}
	}

	for attempt := 0; ; attempt++ {
		data, status, retryAfter, err := c.attempt(ctx, method, rawURL, body, headers)
		lastStatus = status

		switch {
		case err != nil:
			var te *tokenError
			if errors.As(err, &te) {
				record(attempt)
				return nil, te.err
			}
			if ctx.Err() != nil {
				record(attempt)
				return nil, ctx.Err()
			}
			if attempt+1 >= maxAttempts {
				record(attempt)
				return nil, &Error{Kind: KindNetworkError, cause: err}
			}
			c.logger.Debug("retrying after network error",
				logging.Operation("graph.request"),
				slog.Int("attempt", attempt+1),
				logging.Err(err))
			if serr := c.sleep(ctx, backoff(attempt)); serr != nil {
				record(attempt)
				return nil, serr
			}

		case status >= 200 && status < 300:
			record(attempt)
			return data, nil

		case status == http.StatusTooManyRequests:
			if attempt+1 >= maxAttempts {
				record(attempt)
				return nil, &Error{Kind: KindRateLimited, StatusCode: status, RetryAfter: retryAfter}
			}
			c.logger.Debug("rate limited, backing off",
				logging.Operation("graph.request"),
				slog.Int("attempt", attempt+1),
				slog.Duration("retry_after", retryAfter))
			if serr := c.sleep(ctx, retryAfter); serr != nil {
				record(attempt)
				return nil, serr
			}

		case status >= 500:
			if attempt+1 >= maxAttempts {
				record(attempt)
				return nil, &Error{Kind: KindServerError, StatusCode: status}
			}
			c.logger.Debug("server error, backing off",
				logging.Operation("graph.request"),
				slog.Int("attempt", attempt+1),
				slog.Int("status", status))
			if serr := c.sleep(ctx, backoff(attempt)); serr != nil {
				record(attempt)
				return nil, serr
			}

		default:
			record(attempt)
			return nil, classify(status, data)
		}
	}
}

// attempt issues a single request. A nil error with a non-zero status means
// the request completed at the HTTP level; classification happens in do.
func (c *Client) attempt(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) ([]byte, int, time.Duration, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		// Auth failures surface as-is; they are not transport errors.
		return nil, 0, 0, &tokenError{err}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, 0, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return data, resp.StatusCode, parseRetryAfter(resp.Header.Get("Retry-After")), nil
}

// tokenError marks an auth failure so do does not retry it as a network error.
type tokenError struct{ err error }

func (e *tokenError) Error() string { return e.err.Error() }
func (e *tokenError) Unwrap() error { return e.err }

func classify(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, StatusCode: status}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, StatusCode: status}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status}
	default:
		return &Error{Kind: KindHTTPError, StatusCode: status, Body: string(body)}
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
