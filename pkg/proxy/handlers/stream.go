package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// streamFrame is one SSE data payload.
type streamFrame struct {
	Delta string `json:"delta"`
}

// ChatStream handles POST /llm/chat/stream: a completion streamed back as
// Server-Sent Events. Each fragment arrives as a `data:` frame carrying a
// JSON delta; the stream ends with `data: [DONE]`.
//
// The admission slot is held until the stream finishes, so a slow reader
// occupies capacity for its full duration.
func (h *Handlers) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("streaming unsupported by connection"))
		return
	}

	chunks, err := h.service.ChatStream(r.Context(), req.Messages, req.Tools)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for chunk := range chunks {
		if chunk.Error != nil {
			// Headers are already out; log and end the stream.
			slog.ErrorContext(r.Context(), "stream aborted", "error", chunk.Error)
			return
		}
		if chunk.Delta != "" {
			payload, err := json.Marshal(streamFrame{Delta: chunk.Delta})
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to encode stream frame", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
		if chunk.Done {
			break
		}
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
