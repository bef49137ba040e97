// Package providers defines the provider-agnostic request/response types
// and the Provider interface that upstream chat-completion adapters
// implement.
//
// Adapters are thin, deliberate plumbing: the admission-control core treats
// the provider call as an external collaborator whose only relevant
// contract is the request/response shape. The API key is passed per call
// because the balancer selects a credential for every request.
//
// HTTPClient is the shared base for HTTP adapters: pooled transport, JSON
// POST plumbing, and classification of upstream failures into typed errors
// (AuthError, UpstreamRateLimitError, ProviderError, ParseError,
// StreamError).
package providers
