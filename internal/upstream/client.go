package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/version"
)

var (
	// ErrVersionNotFound is returned when the requested id does not exist upstream.
	ErrVersionNotFound = errors.New("version not found upstream")
	// ErrUpstreamUnavailable is returned when an upstream call fails or returns unusable data.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Is makes every status error an ErrUpstreamUnavailable.
func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// Client issues GET requests to upstream APIs.
type Client struct {
	rest *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithUserAgent overrides the client identification header.
func WithUserAgent(userAgent string) Option {
	return func(c *resty.Client) {
		if userAgent != "" {
			c.SetHeader("User-Agent", userAgent)
		}
	}
}

// WithTimeout bounds every request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// NewClient creates a client with retries disabled.
func NewClient(opts ...Option) *Client {
	rest := resty.New().
		SetHeader("User-Agent", version.UserAgent()).
		SetRetryCount(0)

	for _, opt := range opts {
		opt(rest)
	}

	return &Client{rest: rest}
}

// Get fetches url and returns the full body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	logger.DebugKV(ctx, "Upstream request", "url", url)

	resp, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %w", url, ErrUpstreamUnavailable, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{URL: url, Status: resp.Status(), Code: resp.StatusCode()}
	}

	logger.DebugKV(ctx, "Upstream response", "url", url, "status", resp.StatusCode(), "bytes", len(resp.Body()))

	return resp.Body(), nil
}

// GetJSON fetches url and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w: %w", url, ErrUpstreamUnavailable, err)
	}

	return nil
}

// isNotFound reports whether err is an upstream 404.
func isNotFound(err error) bool {
	var statusErr *StatusError

	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
