// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the service-level HTTP handlers of navcms.
// The JSON API lives in the api subpackage.
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/store"
	"github.com/olegiv/navcms/internal/version"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Component status values.
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	CacheWorking         = "working"
	CacheNotWorking      = "not_working"
)

// checkTimeout bounds each dependency check.
const checkTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	cache     *cache.Manager
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, cm *cache.Manager, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cm,
		version:   info,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status       string           `json:"status"`
	Database     string           `json:"database"`
	Cache        string           `json:"cache"`
	CacheBackend string           `json:"cache_backend"`
	Timestamp    time.Time        `json:"timestamp"`
	Uptime       string           `json:"uptime"`
	Version      string           `json:"version"`
	Checks       map[string]Check `json:"checks,omitempty"`
	System       *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string       `json:"go_version"`
	NumGoroutine int          `json:"num_goroutines"`
	NumCPU       int          `json:"num_cpus"`
	MemAllocMB   uint64       `json:"mem_alloc_mb"`
	CacheStats   *cache.Stats `json:"cache_stats,omitempty"`
}

// Health handles GET /health.
// An unreachable database is unhealthy (503); a failing cache only degrades
// the service since reads fall through to the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	cacheCheck := h.checkCache(r.Context())

	status := HealthStatus{
		Status:       StatusHealthy,
		Database:     DatabaseConnected,
		Cache:        CacheWorking,
		CacheBackend: h.cache.BackendName,
		Timestamp:    time.Now().UTC(),
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Version:      h.version.Short(),
	}

	if cacheCheck.Status != StatusHealthy {
		status.Status = StatusDegraded
		status.Cache = CacheNotWorking
	}
	if dbCheck.Status != StatusHealthy {
		status.Status = StatusUnhealthy
		status.Database = DatabaseDisconnected
	}

	if r.URL.Query().Get("verbose") == "true" {
		status.Checks = map[string]Check{
			"database": dbCheck,
			"cache":    cacheCheck,
		}
		status.System = h.getSystemInfo()
	}

	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		slog.Error("health check failed", "database", dbCheck.Message, "category", "system")
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Simple handles GET /health/simple, a static answer for load balancers.
func (h *HealthHandler) Simple(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  StatusHealthy,
		"service": "navigation",
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	if dbCheck.Status == StatusHealthy {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
		})
		return
	}

	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":  "not_ready",
		"message": dbCheck.Message,
	})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := store.Ping(ctx, h.db)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  StatusHealthy,
		Message: "Connected",
		Latency: latency.String(),
	}
}

// checkCache writes and reads back a probe key.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := h.cache.Probe(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  StatusHealthy,
		Message: h.cache.BackendName,
		Latency: latency.String(),
	}
}

// getSystemInfo returns system-level metrics.
func (h *HealthHandler) getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAllocMB:   m.Alloc / 1024 / 1024,
	}
	if stats := h.cache.Stats(); stats != (cache.Stats{}) {
		info.CacheStats = &stats
	}
	return info
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
