package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL は最後の書き込みからクライアント状態を保持する期間です。
const DefaultTTL = 90 * 24 * time.Hour

// RedisProvider はRedisに状態を保存するProviderです。
type RedisProvider struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisProvider はRedisProviderを生成します。ttlが0以下ならDefaultTTLです。
func NewRedisProvider(rdb *redis.Client, ttl time.Duration) *RedisProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProvider{rdb: rdb, ttl: ttl}
}

// For はclientIDで名前空間を切ったストアを返します。
func (p *RedisProvider) For(clientID string) Store {
	return &RedisStore{rdb: p.rdb, ttl: p.ttl, prefix: "dashboard:" + clientID + ":"}
}

// RedisStore は dashboard:<clientID>:<key> に値を保存するStore実装です。
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// Get はkeyの値をdestへデコードします。
func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("clientstate get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("clientstate decode %s: %w", key, err)
	}
	return true, nil
}

// Set はvを保存し、TTLを延長します。
func (s *RedisStore) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+key, raw, s.ttl).Err()
}

// Delete はkeyを削除します。
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
