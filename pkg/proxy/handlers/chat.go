package handlers

import (
	"encoding/json"
	"net/http"

	"mercator-hq/ganymede/pkg/proxy/types"
)

// Chat handles POST /llm/chat: one synchronous completion routed through
// the balancer.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Chat(r.Context(), req.Messages, req.Tools)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{Result: result})
}

// decodeChatRequest parses and validates the shared chat request body.
// On failure it writes the error response and returns ok=false.
func (h *Handlers) decodeChatRequest(w http.ResponseWriter, r *http.Request) (*types.ChatRequest, bool) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest,
			types.NewInvalidRequestError("request body is not valid JSON", types.CodeInvalidJSON))
		return nil, false
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest,
			types.NewInvalidRequestError("messages must not be empty", types.CodeMissingField))
		return nil, false
	}
	return &req, true
}
