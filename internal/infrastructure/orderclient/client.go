// Package orderclient talks to the order and inventory REST API. It
// implements the gateways an allocation session needs.
package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/masala/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// RetryConfig controls retries of GET requests. Writes are never retried.
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 2, RetryDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second}
}

// Client is an HTTP client for the order API
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	userAgent  string
	retry      RetryConfig
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetry sets the GET retry policy
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API at cfg.BaseURL
func New(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		baseURL:   u,
		token:     cfg.Token,
		userAgent: "masala-allocator/1.0",
		retry:     DefaultRetryConfig(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the response wrapper used by every endpoint
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// APIError is a failed API call. Message is the server's message verbatim.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether the server answered 404
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error
	delay := c.retry.RetryDelay
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if c.retry.MaxDelay > 0 && delay > c.retry.MaxDelay {
				delay = c.retry.MaxDelay
			}
		}
		lastErr = c.do(ctx, http.MethodGet, path, nil, nil, out)
		if !retryable(lastErr) {
			return lastErr
		}
		c.logger.Debug("retrying request", zap.String("path", path), zap.Int("attempt", attempt+1), zap.Error(lastErr))
	}
	return lastErr
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%s: %s", resp.Status, snippet(raw))}
		}
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding data from %s %s: %w", method, path, err)
		}
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
