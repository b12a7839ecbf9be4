// Package http wires the HTTP surface of the service: health probes,
// Prometheus metrics and the middleware shared by all routes.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nike1016/selfoss/internal/domain/spout"
	"github.com/Nike1016/selfoss/internal/observability/metrics"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the outcome of one component check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Breaker is the part of a circuit breaker the health check reads.
type Breaker interface {
	Name() string
	IsOpen() bool
}

// HealthHandler reports on the database, the storage circuit breaker and
// the spout registry. Only an unreachable database makes the service
// unhealthy; the other checks can at most degrade it.
type HealthHandler struct {
	DB      *sql.DB
	Breaker Breaker
	Spouts  spout.Registry
	Version string
}

// ServeHTTP godoc
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"database": checkDatabase(ctx, h.DB)}
	if h.Breaker != nil {
		checks["circuit_breaker"] = checkBreaker(h.Breaker)
	}
	if h.Spouts != nil {
		checks["spouts"] = checkSpouts(h.Spouts)
	}

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if checks["database"].Status == statusUnhealthy {
		resp.Status, code = statusUnhealthy, http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("health: encode response", slog.Any("error", err))
	}
}

func checkDatabase(ctx context.Context, db *sql.DB) CheckStatus {
	if db == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := db.PingContext(ctx); err != nil {
		slog.Warn("health: database ping failed", slog.Any("error", err))
		return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
	}

	st := db.Stats()
	metrics.UpdateDBConnectionStats(st.InUse, st.Idle)
	out := CheckStatus{
		Status: statusHealthy,
		Details: map[string]any{
			"max_open_connections": st.MaxOpenConnections,
			"open_connections":     st.OpenConnections,
			"in_use":               st.InUse,
			"idle":                 st.Idle,
			"wait_count":           st.WaitCount,
			"wait_duration_ms":     st.WaitDuration.Milliseconds(),
		},
	}
	if st.MaxOpenConnections > 0 {
		pct := 100 * float64(st.InUse) / float64(st.MaxOpenConnections)
		out.Details["utilization_percent"] = pct
		if pct >= 80 {
			out.Status, out.Message = statusDegraded, "connection pool utilization above 80%"
		}
	}
	return out
}

func checkBreaker(b Breaker) CheckStatus {
	details := map[string]any{"name": b.Name()}
	if b.IsOpen() {
		return CheckStatus{Status: statusDegraded, Message: "storage circuit open", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func checkSpouts(reg spout.Registry) CheckStatus {
	n := len(reg.List())
	if n == 0 {
		return CheckStatus{Status: statusDegraded, Message: "no spouts registered"}
	}
	return CheckStatus{Status: statusHealthy, Details: map[string]any{"registered": n}}
}

// ReadyHandler answers the readiness probe: 200 once the database answers a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if st := checkDatabase(ctx, h.DB); st.Status == statusUnhealthy {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	writePlain(w, "ready")
}

// LiveHandler answers the liveness probe unconditionally.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
