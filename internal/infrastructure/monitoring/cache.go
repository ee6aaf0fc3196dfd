package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/esasma/API-Recettes/internal/ports/outbound"
)

// instrumentedCache counts every cache access by outcome
type instrumentedCache struct {
	next    outbound.CacheRepository
	metrics *MetricsCollector
}

// InstrumentCache wraps cache so its operations show up in
// recettes_cache_operations_total
func InstrumentCache(cache outbound.CacheRepository, metrics *MetricsCollector) outbound.CacheRepository {
	return &instrumentedCache{next: cache, metrics: metrics}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.next.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.CacheOperation("get", "hit")
	case errors.Is(err, outbound.ErrCacheMiss):
		c.metrics.CacheOperation("get", "miss")
	default:
		c.metrics.CacheOperation("get", "error")
	}
	return value, err
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.next.Set(ctx, key, value, ttl)
	c.metrics.CacheOperation("set", outcome(err))
	return err
}

func (c *instrumentedCache) Delete(ctx context.Context, keys ...string) error {
	err := c.next.Delete(ctx, keys...)
	c.metrics.CacheOperation("delete", outcome(err))
	return err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
