package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mercator-hq/ganymede/pkg/balancer"
	"mercator-hq/ganymede/pkg/manager"
	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/proxy/types"
	"mercator-hq/ganymede/pkg/usage"
)

// ChatService is the slice of the manager the handlers depend on.
type ChatService interface {
	Chat(ctx context.Context, messages []providers.Message, tools []providers.Tool) (string, error)
	ChatStream(ctx context.Context, messages []providers.Message, tools []providers.Tool) (<-chan *providers.StreamChunk, error)
	SystemLoad() float64
	SystemCapacity() manager.SystemCapacityReport
	ModelCapacity(name string) (balancer.Report, error)
	KeyLoad(modelName, key string) (manager.KeyLoadReport, error)
	Models() []*balancer.Model
}

// UsageReader exposes recorded request history to the usage endpoint.
type UsageReader interface {
	Recent(ctx context.Context, limit int) ([]usage.Record, error)
}

// Handlers holds the HTTP handlers for the gateway API.
type Handlers struct {
	service ChatService

	// usage is nil when usage recording is disabled.
	usage UsageReader
}

// New creates the handler set. usage may be nil.
func New(service ChatService, usage UsageReader) *Handlers {
	return &Handlers{service: service, usage: usage}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a gateway error onto the JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	resp := toErrorResponse(err)
	writeJSON(w, resp.Error.HTTPStatusCode(), resp)
}

// toErrorResponse classifies errors from the balancing and provider
// layers. Saturation maps to 429, unknown names to 404, upstream failures
// to 502, everything else to 500.
func toErrorResponse(err error) *types.ErrorResponse {
	switch {
	case errors.Is(err, balancer.ErrNoAvailableInstance):
		return types.NewErrorResponse(err.Error(), types.ErrorTypeRateLimitExceeded, types.CodeNoAvailableInstance)
	case errors.Is(err, balancer.ErrCapacityExceeded):
		return types.NewErrorResponse(err.Error(), types.ErrorTypeRateLimitExceeded, types.CodeCapacityExceeded)
	case errors.Is(err, balancer.ErrUnknownModel):
		return types.NewErrorResponse(err.Error(), types.ErrorTypeNotFound, types.CodeUnknownModel)
	case errors.Is(err, balancer.ErrUnknownCredential):
		return types.NewErrorResponse(err.Error(), types.ErrorTypeNotFound, types.CodeUnknownKey)
	}

	if isProviderError(err) {
		return types.NewErrorResponse(err.Error(), types.ErrorTypeBadGateway, types.CodeProviderError)
	}

	return types.NewServerError("An internal error occurred.")
}

// isProviderError reports whether err originated in the provider layer.
func isProviderError(err error) bool {
	var (
		provErr   *providers.ProviderError
		authErr   *providers.AuthError
		rateErr   *providers.UpstreamRateLimitError
		parseErr  *providers.ParseError
		streamErr *providers.StreamError
	)
	return errors.As(err, &provErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &rateErr) ||
		errors.As(err, &parseErr) ||
		errors.As(err, &streamErr)
}
