package health

import (
	"context"
	"time"

	"parcel-backend/internal/monitoring"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db         Pinger
	cacheAlive func() bool
	hub        *monitoring.Hub
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds dependency and host information for dashboards.
type DetailedStatus struct {
	HealthStatus
	Cache  string                 `json:"cache"`
	System monitoring.SystemStats `json:"system"`
}

// NewHealthChecker builds a checker. cacheAlive reports Redis state; Redis
// is optional, so it never makes the service unhealthy.
func NewHealthChecker(db Pinger, cacheAlive func() bool, hub *monitoring.Hub) *HealthChecker {
	return &HealthChecker{db: db, cacheAlive: cacheAlive, hub: hub}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	cacheStatus := "disabled"
	if h.cacheAlive != nil && h.cacheAlive() {
		cacheStatus = "healthy"
	}
	return DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Cache:        cacheStatus,
		System:       monitoring.CollectSystemStats(ctx, h.hub),
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
