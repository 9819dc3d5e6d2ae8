package handlers

import (
	"net/http"

	"parcel-backend/internal/health"
	"parcel-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth - for Kubernetes liveness probe
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth - for Kubernetes readiness probe
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic(r.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// DetailedHealth - for monitoring dashboard
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.checker.CheckDetailed(r.Context()))
}
