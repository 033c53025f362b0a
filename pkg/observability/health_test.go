package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysReady(name string) ReadinessProbe {
	return ProbeFunc{ProbeName: name, Fn: func(ctx context.Context) error { return nil }}
}

func neverReady(name string) ReadinessProbe {
	return ProbeFunc{ProbeName: name, Fn: func(ctx context.Context) error { return errors.New("not loaded") }}
}

func TestLivenessAlwaysOK(t *testing.T) {
	hc := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	hc.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessHealthy(t *testing.T) {
	hc := NewHealthChecker(nil, alwaysReady("classifier"), alwaysReady("engine"))

	rec := httptest.NewRecorder()
	hc.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Len(t, status.Dependencies, 2)
}

func TestReadinessFailingProbe(t *testing.T) {
	hc := NewHealthChecker(nil, neverReady("classifier"))

	rec := httptest.NewRecorder()
	hc.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, "not loaded", status.Dependencies["classifier"].Message)
}

func TestReadinessRedisDegraded(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hc := NewHealthChecker(client, alwaysReady("classifier"))

	status := hc.Check(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)

	// A Redis outage degrades readiness without failing it.
	mr.Close()
	status = hc.Check(context.Background())
	assert.Equal(t, StatusDegraded, status.Status)

	rec := httptest.NewRecorder()
	hc.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
