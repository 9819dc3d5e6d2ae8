package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemStats struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsed    string    `json:"memory_used"`
	MemoryTotal   string    `json:"memory_total"`
	DiskPercent   float64   `json:"disk_percent"`
	DiskUsed      string    `json:"disk_used"`
	DiskTotal     string    `json:"disk_total"`
	Goroutines    int       `json:"goroutines"`
	StreamClients int       `json:"stream_clients"`
	CollectedAt   time.Time `json:"collected_at"`
}

// CollectSystemStats samples CPU over a short interval plus memory and root
// disk usage. Probes that fail leave their fields zero.
func CollectSystemStats(ctx context.Context, hub *Hub) SystemStats {
	stats := SystemStats{
		Goroutines:  runtime.NumGoroutine(),
		CollectedAt: time.Now(),
	}
	if hub != nil {
		stats.StreamClients = hub.Clients()
	}

	if cpuPercents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		stats.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.UsageWithContext(ctx, "/"); err == nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}
	return stats
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
