package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty.Client with retry logic and timeout handling
type Client struct {
	resty      *resty.Client
	maxRetries int
	timeout    time.Duration
	debug      bool
	logger     *slog.Logger
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout      time.Duration
	MaxRetries   int // 0 disables retries
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	UserAgent    string
	Debug        bool
	Logger       *slog.Logger

	// HTTPClient is used as the underlying client when set, e.g. one whose
	// transport adds an oauth2 bearer token.
	HTTPClient *http.Client
}

// StatusError is returned for responses with a status of 400 or above
type StatusError struct {
	Status int
	URL    string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d for %s", e.Status, e.URL)
}

// DefaultClientConfig returns sensible defaults for HTTP client
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:      15 * time.Second,
		MaxRetries:   2,
		RetryWait:    500 * time.Millisecond,
		RetryMaxWait: 3 * time.Second,
		UserAgent:    "reel/1.0",
	}
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryWait <= 0 {
		config.RetryWait = defaults.RetryWait
	}
	if config.RetryMaxWait < config.RetryWait {
		config.RetryMaxWait = max(defaults.RetryMaxWait, config.RetryWait)
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	var restyClient *resty.Client
	if config.HTTPClient != nil {
		restyClient = resty.NewWithClient(config.HTTPClient)
	} else {
		restyClient = resty.New()
	}

	restyClient.
		SetTimeout(config.Timeout).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(config.RetryWait).
		SetRetryMaxWaitTime(config.RetryMaxWait).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json")

	restyClient.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			// a cancelled or expired context will not recover by retrying
			return r == nil || r.Request == nil || r.Request.Context().Err() == nil
		}
		return r.StatusCode() >= 500 || r.StatusCode() == http.StatusTooManyRequests
	})

	client := &Client{
		resty:      restyClient,
		maxRetries: config.MaxRetries,
		timeout:    config.Timeout,
		debug:      config.Debug,
		logger:     config.Logger,
	}

	if config.Debug && config.Logger != nil {
		restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get performs a GET request. Responses with a status >= 400 are returned
// together with a *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, query map[string]string, headers map[string]string) (*resty.Response, error) {
	req := c.resty.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetHeaders(headers)

	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET request failed for %s: %w", rawURL, err)
	}

	if resp.StatusCode() >= 400 {
		return resp, &StatusError{
			Status: resp.StatusCode(),
			URL:    rawURL,
			Body:   truncate(resp.String(), 200),
		}
	}

	return resp, nil
}

// SetHeader sets a default header for all requests
func (c *Client) SetHeader(key, value string) {
	c.resty.SetHeader(key, value)
}

// GetTimeout returns the configured timeout
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// GetMaxRetries returns the configured max retries
func (c *Client) GetMaxRetries() int {
	return c.maxRetries
}

// secretParams are never written to the log
var secretParams = []string{"api_key"}

func redact(values url.Values) url.Values {
	out := url.Values{}
	for k, v := range values {
		out[k] = v
	}
	for _, k := range secretParams {
		if out.Has(k) {
			out.Set(k, "REDACTED")
		}
	}
	return out
}

// redactURL masks secrets in a fully resolved request URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = redact(u.Query()).Encode()
	return u.String()
}

func (c *Client) logRequest(r *resty.Request) {
	c.logger.Debug("HTTP request",
		"method", r.Method,
		"url", r.URL,
		"query", redact(r.QueryParam).Encode(),
	)
}

func (c *Client) logResponse(r *resty.Response) {
	c.logger.Debug("HTTP response",
		"status", r.StatusCode(),
		"url", redactURL(r.Request.URL),
		"time", r.Time(),
		"body", truncate(r.String(), 1000),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... (truncated)"
}
