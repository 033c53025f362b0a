package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReadinessProbe is implemented by components that must be usable before the
// server accepts traffic (the classifier and the rendering engine catalogs).
type ReadinessProbe interface {
	Name() string
	Ready(ctx context.Context) error
}

// HealthChecker provides liveness and readiness probes.
type HealthChecker struct {
	probes []ReadinessProbe
	redis  *redis.Client // optional; set when distributed rate limiting is on
}

// NewHealthChecker creates a health checker over the given probes. redis may
// be nil.
func NewHealthChecker(redisClient *redis.Client, probes ...ReadinessProbe) *HealthChecker {
	return &HealthChecker{probes: probes, redis: redisClient}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Latency time.Duration `json:"latency_ms,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Liveness always returns 200 while the process is running.
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness checks every probe and returns 503 when any required one fails.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}

// Check performs a full health check.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	for _, probe := range h.probes {
		start := time.Now()
		dep := DependencyStatus{Status: StatusHealthy}
		if err := probe.Ready(ctx); err != nil {
			dep.Status = StatusUnhealthy
			dep.Message = err.Error()
			status.Status = StatusUnhealthy
		}
		dep.Latency = time.Since(start)
		status.Dependencies[probe.Name()] = dep
	}

	// Redis backs the distributed rate limiter, which fails open, so a
	// Redis outage degrades rather than kills readiness.
	if h.redis != nil {
		start := time.Now()
		dep := DependencyStatus{Status: StatusHealthy}
		if err := h.redis.Ping(ctx).Err(); err != nil {
			dep.Status = StatusUnhealthy
			dep.Message = err.Error()
			if status.Status == StatusHealthy {
				status.Status = StatusDegraded
			}
		}
		dep.Latency = time.Since(start)
		status.Dependencies["redis"] = dep
	}

	return status
}

// ProbeFunc adapts a function to the ReadinessProbe interface.
type ProbeFunc struct {
	ProbeName string
	Fn        func(ctx context.Context) error
}

func (p ProbeFunc) Name() string                    { return p.ProbeName }
func (p ProbeFunc) Ready(ctx context.Context) error { return p.Fn(ctx) }
