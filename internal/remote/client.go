package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/server"
	"github.com/muurk/arxinspect/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second

	// DefaultCacheDuration is how long the model table is cached
	DefaultCacheDuration = 30 * time.Second

	// maxResponseBody caps the size of a response read from an inspector
	maxResponseBody = 1 << 20
)

// Client talks to the JSON API of a running HTTP inspector
type Client struct {
	// BaseURL is the base URL for the inspector (e.g., "http://192.168.1.20:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// CacheDuration is how long to cache the model table (0 = no cache)
	CacheDuration time.Duration

	cacheMutex   sync.RWMutex
	cachedModels []server.ModelInfo
	cacheTime    time.Time
}

// NewClient creates a client for the inspector at host:port
func NewClient(host string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewClientWithURL creates a client with a full base URL. A URL without a
// scheme is taken to be plain HTTP.
func NewClientWithURL(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		CacheDuration: DefaultCacheDuration,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping checks that the inspector is reachable and returns its version
func (c *Client) Ping(ctx context.Context) (version.Info, error) {
	var info version.Info
	err := c.do(ctx, http.MethodGet, "/api/version", nil, &info)
	return info, err
}

// Decode sends a hex packet to the inspector. layout may be empty to use
// the inspector's own layout. A packet the inspector rejects returns an
// error for which IsDecodeError is true.
func (c *Client) Decode(ctx context.Context, packet, layout string) (*server.DecodeResponse, error) {
	body, err := json.Marshal(server.DecodeRequest{Packet: packet, Layout: layout})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp server.DecodeResponse
	if err := c.do(ctx, http.MethodPost, "/api/decode", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Models returns the inspector's model table, cached for CacheDuration
func (c *Client) Models(ctx context.Context) ([]server.ModelInfo, error) {
	if c.CacheDuration > 0 {
		c.cacheMutex.RLock()
		if c.cachedModels != nil && time.Since(c.cacheTime) < c.CacheDuration {
			models := append([]server.ModelInfo(nil), c.cachedModels...)
			c.cacheMutex.RUnlock()
			return models, nil
		}
		c.cacheMutex.RUnlock()
	}

	var models []server.ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/models", nil, &models); err != nil {
		return nil, err
	}

	if c.CacheDuration > 0 {
		c.cacheMutex.Lock()
		c.cachedModels = models
		c.cacheTime = time.Now()
		c.cacheMutex.Unlock()
	}
	return models, nil
}

// InvalidateCache clears the cached model table
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cachedModels = nil
	c.cacheTime = time.Time{}
}

// do sends a request with retries and exponential backoff and decodes the
// JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(currentDelay):
			case <-ctx.Done():
				return NewNetworkError("request cancelled", ctx.Err())
			}
			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.attempt(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		logging.Debug("Retrying inspector request",
			zap.String("url", c.BaseURL+path),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return lastErr
}

// attempt performs a single request
func (c *Client) attempt(ctx context.Context, method, path string, body []byte, out any) error {
	endpoint, err := url.JoinPath(c.BaseURL, path)
	if err != nil {
		return NewNetworkError("invalid inspector URL", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(method+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		var e server.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return NewDecodeError(e.Error)
		}
	}
	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}
