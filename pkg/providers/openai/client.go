package openai

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/ganymede/pkg/providers"
)

// completionsPath is the chat-completions endpoint relative to the base URL.
const completionsPath = "/chat/completions"

// Client is an adapter for OpenAI-compatible chat-completion APIs.
// One Client serves all credentials of a model; the API key arrives per
// call from the balancer.
type Client struct {
	http  *providers.HTTPClient
	model string
}

// Config configures an OpenAI-compatible adapter.
type Config struct {
	// Name is the adapter name for logs and errors.
	Name string

	// Model is the upstream model identifier sent on every request.
	Model string

	// HTTP configures the underlying HTTP client.
	HTTP providers.ClientConfig
}

// NewClient creates an adapter for an OpenAI-compatible endpoint.
func NewClient(cfg Config) *Client {
	cfg.HTTP.Name = cfg.Name
	return &Client{
		http:  providers.NewHTTPClient(cfg.HTTP),
		model: cfg.Model,
	}
}

// Name returns the adapter's configured name.
func (c *Client) Name() string {
	return c.http.Name()
}

// Complete sends a non-streaming chat completion request.
func (c *Client) Complete(ctx context.Context, apiKey string, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	wire := toWireRequest(c.model, req)
	wire.Stream = false

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, &providers.ProviderError{
			Provider: c.Name(),
			Message:  "failed to marshal request",
			Cause:    err,
		}
	}

	resp, err := c.http.Post(ctx, apiKey, completionsPath, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &providers.ProviderError{
			Provider: c.Name(),
			Message:  "failed to read response",
			Cause:    err,
		}
	}

	var wireResp chatResponse
	if err := json.Unmarshal(payload, &wireResp); err != nil {
		return nil, &providers.ParseError{
			Provider:    c.Name(),
			RawResponse: string(payload),
			Cause:       err,
		}
	}

	return fromWireResponse(&wireResp), nil
}

// StreamComplete sends a streaming chat completion request. Chunks are
// forwarded on the returned channel by a goroutine that owns the response
// body; the channel closes after the final chunk or a mid-stream failure.
func (c *Client) StreamComplete(ctx context.Context, apiKey string, req *providers.CompletionRequest) (<-chan *providers.StreamChunk, error) {
	wire := toWireRequest(c.model, req)
	wire.Stream = true

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, &providers.ProviderError{
			Provider: c.Name(),
			Message:  "failed to marshal request",
			Cause:    err,
		}
	}

	resp, err := c.http.Post(ctx, apiKey, completionsPath, body)
	if err != nil {
		return nil, err
	}

	chunks := make(chan *providers.StreamChunk)
	go c.forwardStream(ctx, resp.Body, chunks)
	return chunks, nil
}
