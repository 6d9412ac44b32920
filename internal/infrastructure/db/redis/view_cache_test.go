package redis

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
)

func TestCatalogCache_StoresWithTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewCatalogCache(client, 0, zerolog.Nop())
	ctx := context.Background()

	if _, ok := cache.Categories(ctx); ok {
		t.Fatalf("expected a miss on an empty cache")
	}

	cache.SetCategories(ctx, []domain.ServiceCategory{{ID: "c1", Name: "Fiber", IsActive: true}})
	cache.SetTypes(ctx, []string{"FIBER", "ETHERNET"})

	categories, ok := cache.Categories(ctx)
	if !ok || len(categories) != 1 || categories[0].Name != "Fiber" {
		t.Fatalf("unexpected categories %+v ok=%v", categories, ok)
	}
	types, ok := cache.Types(ctx)
	if !ok || len(types) != 2 || types[1] != "ETHERNET" {
		t.Fatalf("unexpected types %v ok=%v", types, ok)
	}
	if ttl := mr.TTL("catalog:categories"); ttl != DefaultCatalogTTL {
		t.Fatalf("expected TTL %s, got %s", DefaultCatalogTTL, ttl)
	}
}

func TestViewCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewViewCache[[]string](client, "catalog:types", 0, zerolog.Nop())

	if err := mr.Set("catalog:types", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok := cache.Get(context.Background()); ok {
		t.Fatalf("a corrupt entry must read as a miss")
	}
}

func TestViewCache_ServerDownIsMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewViewCache[[]string](client, "catalog:types", 0, zerolog.Nop())
	mr.Close()

	cache.Set(context.Background(), []string{"FIBER"})
	if _, ok := cache.Get(context.Background()); ok {
		t.Fatalf("an unreachable server must read as a miss")
	}
}
