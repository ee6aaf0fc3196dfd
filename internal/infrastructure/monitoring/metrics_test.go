package monitoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/memory"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCollector_HTTPMiddlewareUsesRoutePattern(t *testing.T) {
	metrics := NewMetricsCollector(zap.NewNop())
	router := chi.NewRouter()
	router.Use(metrics.HTTPMiddleware)
	router.Get("/recipes/{recipeId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/recipes/"+id, nil))
	}

	count := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues(http.MethodGet, "/recipes/{recipeId}", "404"))
	assert.Equal(t, float64(3), count)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.errorsTotal.WithLabelValues("client_error")))
}

func TestMetricsCollector_CollectorsDoNotShareRegistries(t *testing.T) {
	first := NewMetricsCollector(zap.NewNop())
	second := NewMetricsCollector(zap.NewNop())

	first.CatalogEvent("recipe.composed")

	assert.Equal(t, float64(1), testutil.ToFloat64(first.catalogEventsTotal.WithLabelValues("recipe.composed")))
	assert.Equal(t, float64(0), testutil.ToFloat64(second.catalogEventsTotal.WithLabelValues("recipe.composed")))
}

func TestMetricsCollector_Handler(t *testing.T) {
	metrics := NewMetricsCollector(zap.NewNop())
	metrics.CacheOperation("get", "miss")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `recettes_cache_operations_total{operation="get",status="miss"} 1`)
}

func TestTracingProvider_Disabled(t *testing.T) {
	provider, err := NewTracingProvider(TracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestInstrumentCache_CountsOutcomes(t *testing.T) {
	ctx := context.Background()
	metrics := NewMetricsCollector(zap.NewNop())
	store := memory.NewCacheRepository(0)
	defer store.Close()
	cache := InstrumentCache(store, metrics)

	_, err := cache.Get(ctx, "recipe:detail:1")
	require.ErrorIs(t, err, outbound.ErrCacheMiss)
	require.NoError(t, cache.Set(ctx, "recipe:detail:1", []byte("{}"), time.Minute))
	_, err = cache.Get(ctx, "recipe:detail:1")
	require.NoError(t, err)
	require.NoError(t, cache.Delete(ctx, "recipe:detail:1"))

	ops := metrics.cacheOperations
	assert.Equal(t, float64(1), testutil.ToFloat64(ops.WithLabelValues("get", "miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ops.WithLabelValues("get", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ops.WithLabelValues("set", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ops.WithLabelValues("delete", "ok")))
}
