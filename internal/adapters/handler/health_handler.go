package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

const checkTimeout = 5 * time.Second

type HealthHandler struct {
	checks    map[string]ports.HealthChecker
	startTime time.Time
	version   string
}

// NewHealthHandler reports on the named dependencies. A nil checker is
// reported as not initialized.
func NewHealthHandler(checks map[string]ports.HealthChecker, version string) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		checks:    checks,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health confirms the process is running.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.write(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Ready pings every configured dependency; any DOWN check makes the whole
// response 503.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]Check, len(h.checks))
	status := "UP"
	httpStatus := http.StatusOK

	for name, checker := range h.checks {
		c := h.check(r.Context(), checker)
		checks[name] = c
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	h.write(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	})
}

// Live is an alias for Health - simple liveness check
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

func (h *HealthHandler) check(ctx context.Context, checker ports.HealthChecker) Check {
	if checker == nil {
		return Check{Status: "DOWN", Message: "not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := checker.Ping(ctx); err != nil {
		log.Printf("health: check failed: %v", err)
		return Check{Status: "DOWN", Message: err.Error()}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) write(w http.ResponseWriter, status int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
