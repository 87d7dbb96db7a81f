// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/usecase"
)

// DefaultTTL is used when a non-positive ttl is given.
const DefaultTTL = 5 * time.Minute

// lister is implemented by providers that offer a default symbol list.
type lister interface {
	List(ctx context.Context, n int) []entity.QuoteRecord
}

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// Provider calls are fail-soft, so only non-empty results are stored; an
// empty answer may be a throttled or failed call and is retried next time.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check that the decorator still satisfies MarketRepository.
var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "quotes".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// DailySeries returns the cached series for (code, days) or loads it from the provider.
func (c *CachingMarketRepository) DailySeries(ctx context.Context, code string, days int) []entity.QuoteRecord {
	key := fmt.Sprintf("%s:series:%s:%d", c.namespace, safe(code), days)
	return c.cached(ctx, key, func() []entity.QuoteRecord {
		return c.inner.DailySeries(ctx, code, days)
	})
}

// Search returns cached search results for query or loads them from the provider.
func (c *CachingMarketRepository) Search(ctx context.Context, query string) []entity.QuoteRecord {
	key := fmt.Sprintf("%s:search:%s", c.namespace, safe(strings.ToLower(query)))
	return c.cached(ctx, key, func() []entity.QuoteRecord {
		return c.inner.Search(ctx, query)
	})
}

// List returns the cached default list when the provider offers one.
func (c *CachingMarketRepository) List(ctx context.Context, n int) []entity.QuoteRecord {
	l, ok := c.inner.(lister)
	if !ok {
		return nil
	}
	key := fmt.Sprintf("%s:list:%d", c.namespace, n)
	return c.cached(ctx, key, func() []entity.QuoteRecord {
		return l.List(ctx, n)
	})
}

func (c *CachingMarketRepository) cached(ctx context.Context, key string, load func() []entity.QuoteRecord) []entity.QuoteRecord {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.QuoteRecord
		if err := json.Unmarshal(b, &out); err == nil {
			return out
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out := load()
	if len(out) == 0 {
		return out
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Debug("quote cache write failed", "key", key, "error", err)
		}
	}
	return out
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
