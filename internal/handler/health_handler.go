package handler

import (
	"encoding/json"
	"net/http"

	"propertypulse/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthService *service.HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(healthService *service.HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// HandleHealth handles GET requests to the /health endpoint
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthStatus, err := h.healthService.CheckHealth()
	if err != nil {
		WriteInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	// Degraded still serves synchronous sends, so it stays 200 and load
	// balancers keep routing to it.
	switch healthStatus.Status {
	case service.StatusHealthy, service.StatusDegraded:
		w.WriteHeader(http.StatusOK)
	case service.StatusUnhealthy:
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	json.NewEncoder(w).Encode(healthStatus)
}
