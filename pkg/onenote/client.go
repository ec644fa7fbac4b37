// Package onenote (client.go) implements the authenticated HTTP client the
// resource operations are built on.
package onenote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/logger"
	"github.com/google/uuid"
)

// TokenSource supplies bearer tokens for a provider and takes back tokens the
// API rejected. *Auth implements it.
type TokenSource interface {
	GetAuthToken(ctx context.Context, p AuthProvider) (string, error)
	InvalidateAccessToken(p AuthProvider)
}

// ClientConfig configures a Client. Zero values fall back to the package defaults.
type ClientConfig struct {
	Provider AuthProvider
	UseBeta  bool
	// BaseURL replaces the API route, mainly for tests. It must end in "/".
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Retry      RetryPolicy
	RateLimit  RateLimitConfig
	Logger     logger.Logger
}

// Client talks to the OneNote API on behalf of one provider.
type Client struct {
	tokens     TokenSource
	provider   AuthProvider
	apiRoute   string
	httpClient *http.Client
	timeout    time.Duration
	retry      RetryPolicy
	limiter    *RateLimiter
	logger     logger.Logger
}

// NewClient creates a client that takes its tokens from tokens.
func NewClient(tokens TokenSource, cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = APIRoute(cfg.UseBeta)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry == (RetryPolicy{}) {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NoopLogger{}
	}
	return &Client{
		tokens:     tokens,
		provider:   cfg.Provider,
		apiRoute:   cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		retry:      cfg.Retry,
		limiter:    NewRateLimiter(cfg.RateLimit),
		logger:     cfg.Logger,
	}
}

// Provider returns the identity provider the client signs requests for.
func (c *Client) Provider() AuthProvider {
	return c.provider
}

// APIRoute returns the route relative paths are resolved against.
func (c *Client) APIRoute() string {
	return c.apiRoute
}

// resolve turns a path relative to the API route into a URL. Absolute URLs,
// such as operation locations, are used as given.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return path
	}
	return c.apiRoute + strings.TrimPrefix(path, "/")
}

// apiCall sends one API request and returns the raw response whatever its
// status, leaving interpretation to the Translate functions.
//
// Throttling (429), 503 and 504 responses and network errors are retried
// under the client's retry policy. A POST may already have taken effect after
// a network error or a 504, so it is only retried when the service rejected
// it: a 429, or a 503 carrying Retry-After. A 401 drops the provider's access
// token so the next call acquires a fresh one.
func (c *Client) apiCall(ctx context.Context, method, path, contentType, accept string, body io.ReadSeeker) (*http.Response, error) {
	token, err := c.tokens.GetAuthToken(ctx, c.provider)
	if err != nil {
		return nil, err
	}

	url := c.resolve(path)
	requestID := uuid.NewString()

	for attempt := 0; ; attempt++ {
		c.logger.Debug("apiCall", "method", method, "url", url, "attempt", attempt, "requestId", requestID)

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		if attempt > 0 && body != nil {
			if _, err := body.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewinding request body for retry: %w", err)
			}
		}

		res, err := c.do(ctx, method, url, contentType, accept, token, requestID, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.retry.Attempts && method != http.MethodPost {
				if werr := c.sleep(ctx, c.retry.backoff(attempt)); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, fmt.Errorf("network error: %w", err)
		}

		switch res.StatusCode {
		case http.StatusUnauthorized:
			c.logger.Debugf("%s %s returned 401, dropping the %s access token", method, url, c.provider)
			c.tokens.InvalidateAccessToken(c.provider)
			return res, nil
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			retryAfter := parseRetryAfter(res.Header.Get(HeaderRetryAfter), time.Now())
			if res.StatusCode == http.StatusTooManyRequests {
				c.limiter.RecordRateLimitError(retryAfter)
			}
			if attempt >= c.retry.Attempts || !retryableStatus(method, res) {
				return res, nil
			}
			_, _ = io.Copy(io.Discard, res.Body)
			res.Body.Close()

			wait := c.retry.backoff(attempt)
			if retryAfter > wait && res.StatusCode != http.StatusTooManyRequests {
				wait = retryAfter
			}
			c.logger.Debugf("%s %s returned %d, retrying in %s", method, url, res.StatusCode, wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		default:
			return res, nil
		}
	}
}

// retryableStatus reports whether a throttling or unavailable response may be
// retried for the method.
func retryableStatus(method string, res *http.Response) bool {
	if method != http.MethodPost {
		return true
	}
	switch res.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusServiceUnavailable:
		return res.Header.Get(HeaderRetryAfter) != ""
	default:
		return false
	}
}

// do sends a single request under the client's timeout. The response body
// stays readable after do returns.
func (c *Client) do(ctx context.Context, method, url, contentType, accept, token, requestID string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderClientRequestID, requestID)
	if accept == "" {
		accept = ContentTypeJSON
	}
	req.Header.Set("Accept", accept)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	res.Body = &cancelOnClose{ReadCloser: res.Body, cancel: cancel}
	return res, nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// getEntity fetches a single entity expecting 200.
func getEntity[T any](ctx context.Context, c *Client, path string) (Envelope[T], error) {
	res, err := c.apiCall(ctx, http.MethodGet, path, "", ContentTypeJSON, nil)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Translate[T](res, http.StatusOK)
}

// getList fetches a collection expecting 200.
func getList[T any](ctx context.Context, c *Client, path string, q Query) (Envelope[[]T], error) {
	res, err := c.apiCall(ctx, http.MethodGet, path+q.Encode(), "", ContentTypeJSON, nil)
	if err != nil {
		return Envelope[[]T]{}, err
	}
	return TranslateList[T](res, http.StatusOK)
}

// sendJSON sends payload as JSON and translates the reply as T.
func sendJSON[T any](ctx context.Context, c *Client, method, path string, payload any, expected int) (Envelope[T], error) {
	body, err := jsonBody(payload)
	if err != nil {
		return Envelope[T]{}, err
	}
	res, err := c.apiCall(ctx, method, path, ContentTypeJSON, ContentTypeJSON, body)
	if err != nil {
		return Envelope[T]{}, err
	}
	return Translate[T](res, expected)
}

func jsonBody(v any) (io.ReadSeeker, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
