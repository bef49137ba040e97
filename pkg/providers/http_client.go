package providers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ClientConfig configures an HTTPClient.
type ClientConfig struct {
	// Name is the adapter name, used in logs and error values.
	Name string

	// BaseURL is the provider's API base URL.
	BaseURL string

	// Timeout is the wall-clock limit for one provider call.
	Timeout time.Duration

	// MaxIdleConns bounds the connection pool.
	MaxIdleConns int
}

// HTTPClient is the shared HTTP base for provider adapters: a pooled
// transport, JSON POST plumbing, and upstream error classification.
// Concrete adapters embed it and implement the Provider interface.
type HTTPClient struct {
	config ClientConfig
	client *http.Client
}

// NewHTTPClient creates the shared HTTP base with connection pooling.
func NewHTTPClient(config ClientConfig) *HTTPClient {
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 32
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConns,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Name returns the adapter's configured name.
func (c *HTTPClient) Name() string {
	return c.config.Name
}

// BaseURL returns the provider's API base URL.
func (c *HTTPClient) BaseURL() string {
	return c.config.BaseURL
}

// Post sends a JSON POST carrying the given body to path (relative to the
// base URL), authenticated with the API key as a bearer token. The caller
// owns the response body.
//
// Non-2xx responses are drained, classified, and returned as typed errors;
// the response is nil in that case.
func (c *HTTPClient) Post(ctx context.Context, apiKey, path string, body []byte) (*http.Response, error) {
	url := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{
			Provider: c.config.Name,
			Message:  "failed to build request",
			Cause:    err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Provider: c.config.Name,
			Message:  "request failed",
			Cause:    err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.classifyError(resp)
	}

	return resp, nil
}

// classifyError turns a non-2xx upstream response into a typed error.
// The body is read with a hard cap so a misbehaving upstream cannot make
// error handling unbounded.
func (c *HTTPClient) classifyError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := string(body)
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Provider: c.config.Name, Message: message}
	case http.StatusTooManyRequests:
		return &UpstreamRateLimitError{
			Provider:   c.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    message,
		}
	default:
		return &ProviderError{
			Provider:   c.config.Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}
}

// parseRetryAfter parses a Retry-After header given in seconds.
// HTTP-date form is not worth supporting here; providers send seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
