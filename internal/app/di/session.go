package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "stock_dashboard/internal/feature/auth/adapters"
	"stock_dashboard/internal/feature/auth/usecase"
	"stock_dashboard/internal/platform/clientstate"
	"stock_dashboard/internal/platform/session"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to PostgreSQL.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session")
	}
	return authadapters.NewSessionPostgres(db)
}

// NewClientStateProvider returns the Redis-backed dashboard state store, or an
// in-process store when Redis is unavailable.
func NewClientStateProvider(rdb *redis.Client, ttl time.Duration) clientstate.Provider {
	if rdb != nil {
		return clientstate.NewRedisProvider(rdb, ttl)
	}
	return clientstate.NewMemoryProvider(ttl, 0)
}
