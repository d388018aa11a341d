package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/skijump/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps response bodies read by [Client.GetBytes].
	DefaultMaxBytes = 4 << 20
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when a body exceeds the client's size limit.
	ErrTooLarge = errors.New("response too large")
)

// Client performs GET requests with retry and a response size limit.
type Client struct {
	http     *http.Client
	headers  map[string]string
	maxBytes int64
	attempts int
	delay    time.Duration
}

// NewClient creates a Client that sends headers with every request.
// Pass nil for headers if none are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		headers:  headers,
		maxBytes: DefaultMaxBytes,
		attempts: 3,
		delay:    time.Second,
	}
}

// WithHTTPClient replaces the underlying transport client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// WithRetry sets the attempt count and initial backoff delay.
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	c.attempts, c.delay = attempts, delay
	return c
}

// WithMaxBytes sets the response size limit.
func (c *Client) WithMaxBytes(n int64) *Client {
	c.maxBytes = n
	return c
}

// GetBytes fetches rawURL and returns the body and its Content-Type.
// Transient failures are retried with backoff.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, string, error) {
	var (
		body        []byte
		contentType string
	)
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, contentType, err = c.do(ctx, rawURL)
		return err
	})
	return body, contentType, err
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, "", &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	if int64(len(data)) > c.maxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500 || code == http.StatusTooManyRequests:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
