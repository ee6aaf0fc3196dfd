package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"go.uber.org/zap"
)

// DefaultDetailTTL is how long a recipe detail stays cached when no TTL is configured
const DefaultDetailTTL = 10 * time.Minute

// DetailCache is the cache-aside store of recipe details shared by the
// services. Every invalidation bumps a generation counter; a detail loaded
// before the latest invalidation is never left in the cache.
type DetailCache struct {
	cache      outbound.CacheRepository
	ttl        time.Duration
	generation atomic.Uint64
	logger     *zap.Logger
}

// NewDetailCache creates a detail cache over cache; ttl <= 0 uses DefaultDetailTTL
func NewDetailCache(cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) *DetailCache {
	if ttl <= 0 {
		ttl = DefaultDetailTTL
	}
	return &DetailCache{
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("detail-cache"),
	}
}

func recipeDetailKey(recipeID int64) string {
	return fmt.Sprintf("recipe:detail:%d", recipeID)
}

// Generation returns the current invalidation generation. Read it before
// loading a detail from the store and hand it to Fill.
func (c *DetailCache) Generation() uint64 {
	return c.generation.Load()
}

// Get returns the cached detail of recipeID, if any
func (c *DetailCache) Get(ctx context.Context, recipeID int64) (*inbound.RecipeDetailDTO, bool) {
	key := recipeDetailKey(recipeID)
	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, outbound.ErrCacheMiss) {
			c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var detail inbound.RecipeDetailDTO
	if err := json.Unmarshal(cached, &detail); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
		return nil, false
	}
	return &detail, true
}

// Fill caches detail unless an invalidation happened since generation was
// read. An invalidation racing the write itself is undone by deleting the
// entry again.
func (c *DetailCache) Fill(ctx context.Context, recipeID int64, detail *inbound.RecipeDetailDTO, generation uint64) {
	if c.Generation() != generation {
		return
	}

	key := recipeDetailKey(recipeID)
	data, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		return
	}

	if c.Generation() != generation {
		c.delete(ctx, key)
	}
}

// Invalidate drops the cached details of recipeIDs
func (c *DetailCache) Invalidate(ctx context.Context, recipeIDs ...int64) {
	if len(recipeIDs) == 0 {
		return
	}
	c.generation.Add(1)

	keys := make([]string, len(recipeIDs))
	for i, id := range recipeIDs {
		keys[i] = recipeDetailKey(id)
	}
	c.delete(ctx, keys...)
}

func (c *DetailCache) delete(ctx context.Context, keys ...string) {
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
