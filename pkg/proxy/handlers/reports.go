package handlers

import (
	"math"
	"net/http"

	"mercator-hq/ganymede/pkg/proxy/types"
)

// SystemLoad handles GET /llm/system-load: aggregate utilization as a
// percentage, rounded to two decimal places.
func (h *Handlers) SystemLoad(w http.ResponseWriter, r *http.Request) {
	load := math.Round(h.service.SystemLoad()*100) / 100
	writeJSON(w, http.StatusOK, types.SystemLoadResponse{LoadPercent: load})
}

// SystemCapacity handles GET /llm/system-capacity: per-variant totals and
// the full per-model breakdown.
func (h *Handlers) SystemCapacity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.SystemCapacity())
}

// ModelLoad handles GET /llm/model-load/{model}: one model's capacity
// report, or 404 for an unregistered name.
func (h *Handlers) ModelLoad(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ModelCapacity(r.PathValue("model"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// KeyLoad handles GET /llm/key-load/{model}/{key}: one credential's
// standing, or 404 when either name does not resolve.
func (h *Handlers) KeyLoad(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.KeyLoad(r.PathValue("model"), r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
