package api

import (
	"net/http"

	"hirehub/internal/database"
)

// DashboardStats handles GET /api/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repos.Stats.Dashboard(r.Context())
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteSuccess(w, r, stats)
}

// Health handles GET /health. An unhealthy store answers 503 so load
// balancers take the instance out of rotation.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := h.repos.HealthCheck(r.Context())

	status := http.StatusOK
	if db, ok := health["database"].(*database.HealthStatus); ok && db.Status == database.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	resp := h.builder.Success(r.Context(), health)
	resp.Success = status == http.StatusOK
	h.builder.WriteJSON(w, r, resp, status)
}
