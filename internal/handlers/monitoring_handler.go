package handlers

import (
	"net/http"

	"parcel-backend/internal/monitoring"
	"parcel-backend/pkg/utils"
)

type MonitoringHandler struct {
	Hub *monitoring.Hub
}

func NewMonitoringHandler(hub *monitoring.Hub) *MonitoringHandler {
	return &MonitoringHandler{Hub: hub}
}

// Stream upgrades to a websocket carrying live ledger events.
func (h *MonitoringHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r)
}

// SystemStats reports host CPU, memory and disk usage.
func (h *MonitoringHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, monitoring.CollectSystemStats(r.Context(), h.Hub))
}
