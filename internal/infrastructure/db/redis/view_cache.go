package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
)

const DefaultCatalogTTL = 10 * time.Minute

// ViewCache stores one JSON-encoded value under a fixed key. Failures are
// logged and reported as misses.
type ViewCache[T any] struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewViewCache[T any](client *redis.Client, key string, ttl time.Duration, log zerolog.Logger) *ViewCache[T] {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &ViewCache[T]{client: client, key: key, ttl: ttl, log: log}
}

func (c *ViewCache[T]) Get(ctx context.Context) (T, bool) {
	var out T
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", c.key).Msg("cache read failed")
		}
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("cache entry corrupt")
		return out, false
	}
	return out, true
}

func (c *ViewCache[T]) Set(ctx context.Context, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("cache write failed")
	}
}

// CatalogCache implements ports.CatalogCache with two ViewCaches.
type CatalogCache struct {
	categories *ViewCache[[]domain.ServiceCategory]
	types      *ViewCache[[]string]
}

func NewCatalogCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	return &CatalogCache{
		categories: NewViewCache[[]domain.ServiceCategory](client, "catalog:categories", ttl, log),
		types:      NewViewCache[[]string](client, "catalog:types", ttl, log),
	}
}

func (c *CatalogCache) Categories(ctx context.Context) ([]domain.ServiceCategory, bool) {
	return c.categories.Get(ctx)
}

func (c *CatalogCache) SetCategories(ctx context.Context, categories []domain.ServiceCategory) {
	c.categories.Set(ctx, categories)
}

func (c *CatalogCache) Types(ctx context.Context) ([]string, bool) {
	return c.types.Get(ctx)
}

func (c *CatalogCache) SetTypes(ctx context.Context, types []string) {
	c.types.Set(ctx, types)
}
