package providers

import "context"

// Provider is the interface all upstream chat-completion adapters
// implement. It is the external collaborator of the admission-control core:
// the core selects a credential, admits the request, and hands the provider
// the API key to use for that one call.
//
// The API key is a per-call argument, not adapter state, because the
// balancer rotates credentials per selection. Implementations must respect
// context cancellation; wall-clock timeouts live here, not in the core.
type Provider interface {
	// Complete sends a completion request using the given API key and
	// returns the full response.
	Complete(ctx context.Context, apiKey string, req *CompletionRequest) (*CompletionResponse, error)

	// StreamComplete sends a streaming completion request. The returned
	// channel yields incremental chunks and is closed after the final one.
	// A mid-stream failure is delivered in the Error field of the last
	// chunk before the channel closes.
	StreamComplete(ctx context.Context, apiKey string, req *CompletionRequest) (<-chan *StreamChunk, error)

	// Name returns the adapter's configured name, used in logs and errors.
	Name() string
}
