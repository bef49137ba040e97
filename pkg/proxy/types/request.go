package types

import "mercator-hq/ganymede/pkg/providers"

// ChatRequest is the request body accepted by the chat endpoints. The
// gateway picks the upstream model itself, so unlike the OpenAI API there
// is no model field.
type ChatRequest struct {
	// Messages is the conversation history. Required, non-empty.
	Messages []providers.Message `json:"messages"`

	// Tools optionally restricts routing to tool-capable models.
	Tools []providers.Tool `json:"tools,omitempty"`
}

// ChatResponse is the response body for a non-streaming completion.
type ChatResponse struct {
	// Result is the assistant's reply content.
	Result string `json:"result"`
}

// SystemLoadResponse reports aggregate utilization.
type SystemLoadResponse struct {
	// LoadPercent is 100 * occupancy / capacity across all models,
	// rounded to two decimal places.
	LoadPercent float64 `json:"load_percent"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Models int    `json:"models"`
}
