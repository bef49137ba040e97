package handlers

import (
	"net/http"

	"mercator-hq/ganymede/pkg/proxy/types"
)

// Health handles GET /llm/health. The gateway holds no connections open
// to upstreams, so health reports process liveness and registry size.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status: "ok",
		Models: len(h.service.Models()),
	})
}
