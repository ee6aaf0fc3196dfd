// Package healthcheck unit tests
package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func staticChecker(status Status, message string) Checker {
	return NewCustomChecker("static", func(ctx context.Context) (Status, string, interface{}) {
		return status, message, nil
	})
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_AggregatesWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"all healthy", map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, StatusHealthy},
		{"one degraded", map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, StatusDegraded},
		{"unhealthy wins", map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("1.0.0", zap.NewNop())
			for name, status := range tt.statuses {
				hc.Register(name, staticChecker(status, ""))
			}

			response := hc.Check(context.Background())

			assert.Equal(t, tt.want, response.Status)
			require.Len(t, response.Checks, len(tt.statuses))
			assert.Equal(t, "a", response.Checks[0].Name)
			assert.Equal(t, "b", response.Checks[1].Name)
		})
	}
}

func TestHealthCheck_Check_CachesResponse(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	calls := 0
	hc.Register("counter", NewCustomChecker("counter", func(ctx context.Context) (Status, string, interface{}) {
		calls++
		return StatusHealthy, "", nil
	}))

	hc.Check(context.Background())
	hc.Check(context.Background())
	assert.Equal(t, 1, calls)

	hc.SetCacheTTL(0)
	hc.Check(context.Background())
	assert.Equal(t, 2, calls)
}

func TestHealthCheck_Check_TimesOutSlowChecker(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.SetCheckTimeout(20 * time.Millisecond)
	release := make(chan struct{})
	defer close(release)
	hc.Register("stuck", NewCustomChecker("stuck", func(ctx context.Context) (Status, string, interface{}) {
		<-release
		return StatusHealthy, "", nil
	}))

	response := hc.Check(context.Background())

	require.Len(t, response.Checks, 1)
	assert.Equal(t, StatusUnhealthy, response.Checks[0].Status)
	assert.Equal(t, "check timed out", response.Checks[0].Message)
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		handler    func(*HealthCheck) http.HandlerFunc
		wantCode   int
		wantStatus string
	}{
		{"health healthy", StatusHealthy, (*HealthCheck).Handler, http.StatusOK, "healthy"},
		{"health degraded", StatusDegraded, (*HealthCheck).Handler, http.StatusOK, "degraded"},
		{"health unhealthy", StatusUnhealthy, (*HealthCheck).Handler, http.StatusServiceUnavailable, "unhealthy"},
		{"ready degraded", StatusDegraded, (*HealthCheck).ReadinessHandler, http.StatusOK, "ready"},
		{"not ready", StatusUnhealthy, (*HealthCheck).ReadinessHandler, http.StatusServiceUnavailable, "not_ready"},
		{"alive", StatusUnhealthy, (*HealthCheck).LivenessHandler, http.StatusOK, "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("1.0.0", zap.NewNop())
			hc.Register("dep", staticChecker(tt.status, "message"))
			rec := httptest.NewRecorder()

			tt.handler(hc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestDatabaseChecker(t *testing.T) {
	db, err := sqlite.SetupDatabase(sqlite.Options{}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	check := NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Contains(t, check.Metadata, "max_conns")

	require.NoError(t, sqlDB.Close())
	check = NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestRedisChecker_UnreachableServerDegrades(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	check := NewRedisChecker(client).Check(context.Background())

	assert.Equal(t, StatusDegraded, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestCheck_MarshalJSONUsesMilliseconds(t *testing.T) {
	data, err := json.Marshal(Check{Name: "db", Status: StatusHealthy, Duration: 1500 * time.Millisecond})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1500), decoded["duration_ms"])
	assert.Equal(t, "db", decoded["name"])
}
