package handlers

import (
	"net/http"
	"strconv"

	"mercator-hq/ganymede/pkg/proxy/types"
)

const defaultUsageLimit = 100

// RecentUsage handles GET /llm/usage/recent?limit=N: the latest recorded
// request outcomes, newest first. Returns 404 when usage recording is
// disabled.
func (h *Handlers) RecentUsage(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		writeJSON(w, http.StatusNotFound,
			types.NewErrorResponse("usage recording is disabled", types.ErrorTypeNotFound, ""))
		return
	}

	limit := defaultUsageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest,
				types.NewInvalidRequestError("limit must be a positive integer", types.CodeInvalidValue))
			return
		}
		limit = n
	}

	records, err := h.usage.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
