package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "chargemap-backend/1.0"
	DefaultMaxBodyBytes = 16 << 20
)

type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BodyTooLargeError is returned when a response body exceeds the configured limit.
type BodyTooLargeError struct {
	URL   string
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("response body from %s exceeds %d bytes", e.URL, e.Limit)
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
	URL(path string) string
}

type Client struct {
	baseURL      string
	userAgent    string
	maxBodyBytes int64
	httpClient   *http.Client
	GetFunc      func(ctx context.Context, path string) (*Response, error)
}

// Options configures New. Zero values take the package defaults.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Client{
		baseURL:      opts.BaseURL,
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// URL resolves path against the base URL. Without a base URL the path is used as-is.
func (c *Client) URL(path string) string {
	if c.baseURL == "" {
		return path
	}
	return c.baseURL + path
}

// Get fetches path and returns the status and body. Non-2xx statuses are not errors;
// callers check Response.OK.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	url := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// One byte past the limit tells an exact fit from an overflow.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, &BodyTooLargeError{URL: url, Limit: c.maxBodyBytes}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
