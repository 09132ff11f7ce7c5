package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// MonitoringHandler serves the admin system-status panel: host resource
// usage plus database health and pool statistics.
type MonitoringHandler struct {
	db *pgxpool.Pool
}

func NewMonitoringHandler(db *pgxpool.Pool) *MonitoringHandler {
	return &MonitoringHandler{db: db}
}

type systemStats struct {
	DatabaseStatus   string  `json:"database_status"`
	ResponseTimeMs   int64   `json:"response_time_ms"`
	DBSize           string  `json:"db_size"`
	PoolTotalConns   int32   `json:"pool_total_conns"`
	PoolIdleConns    int32   `json:"pool_idle_conns"`
	PoolAcquired     int32   `json:"pool_acquired_conns"`
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryPercent    float64 `json:"memory_percent"`
	MemoryUsed       string  `json:"memory_used"`
	MemoryTotal      string  `json:"memory_total"`
	DiskPercent      float64 `json:"disk_percent"`
	DiskUsed         string  `json:"disk_used"`
	DiskTotal        string  `json:"disk_total"`
	InwardEntryRows  int64   `json:"inward_entry_rows"`
	OutwardEntryRows int64   `json:"outward_entry_rows"`
}

func (h *MonitoringHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stats := systemStats{DatabaseStatus: "healthy"}

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "unhealthy"
	}
	stats.ResponseTimeMs = time.Since(start).Milliseconds()

	var dbSizeBytes int64
	h.db.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)
	stats.DBSize = formatBytes(uint64(dbSizeBytes))

	h.db.QueryRow(ctx, "SELECT count(*) FROM inward_entries").Scan(&stats.InwardEntryRows)
	h.db.QueryRow(ctx, "SELECT count(*) FROM outward_entries").Scan(&stats.OutwardEntryRows)

	pool := h.db.Stat()
	stats.PoolTotalConns = pool.TotalConns()
	stats.PoolIdleConns = pool.IdleConns()
	stats.PoolAcquired = pool.AcquiredConns()

	if cpuPercents, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercents) > 0 {
		stats.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}

	respondJSON(w, http.StatusOK, stats)
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
