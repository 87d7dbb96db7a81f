// Package session はリフレッシュセッションのRedis実装を提供します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/auth/domain/entity"
	"stock_dashboard/internal/feature/auth/usecase"
)

// revokedRetention は失効済みセッションを監査用に残す期間です。
const revokedRetention = 24 * time.Hour

// SessionRedis はusecase.SessionRepositoryのRedis実装です。
//
// キー構成:
//   - {prefix}:{id}         セッション本体（JSON、TTL=有効期限まで）
//   - {prefix}:user:{uid}   ユーザーのセッションID（ZSET、score=作成時刻）
type SessionRedis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis はSessionRedisを生成します。prefixが空なら"session"を使います。
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionRedis{client: client, prefix: prefix, now: time.Now}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) userSessionsKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Create はセッションを保存し、ユーザーのインデックスに追加します。
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.ZAdd(ctx, r.userSessionsKey(session.UserID), redis.Z{
			Score:  float64(session.CreatedAt.UnixNano()),
			Member: session.ID,
		})
		return nil
	})
	return err
}

// FindByID はセッションを取得します。
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke はセッションを失効させ、ユーザーのインデックスから外します。
// 本体は監査用にrevokedRetentionの間だけ残します。
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if session.IsRevoked() {
		return usecase.ErrSessionNotFound
	}

	now := r.now()
	session.RevokedAt = &now
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(id), data, revokedRetention)
		pipe.ZRem(ctx, r.userSessionsKey(session.UserID), id)
		return nil
	})
	return err
}

// CountByUserID は有効なセッション数を返します。期限切れのIDはついでに取り除きます。
func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	ids, err := r.activeIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// DeleteOldestByUserID は作成時刻が最も古い有効セッションを削除します。
func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	ids, err := r.activeIDs(ctx, userID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	oldest := ids[0]
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(oldest))
		pipe.ZRem(ctx, r.userSessionsKey(userID), oldest)
		return nil
	})
	return err
}

// DeleteExpired はセッション本体がTTLで消えたIDをユーザーインデックスから取り除きます。
// 本体の削除はRedisのTTLに任せます。戻り値は取り除いたID数です。
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	var removed int64
	iter := r.client.Scan(ctx, 0, r.prefix+":user:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		uid, err := strconv.ParseUint(key[len(r.prefix)+len(":user:"):], 10, 64)
		if err != nil {
			continue
		}
		before, err := r.client.ZCard(ctx, key).Result()
		if err != nil {
			return removed, err
		}
		ids, err := r.activeIDs(ctx, uint(uid))
		if err != nil {
			return removed, err
		}
		removed += before - int64(len(ids))
	}
	return removed, iter.Err()
}

// activeIDs は作成順のセッションIDのうち本体が残っている有効なものを返し、
// 残っていないIDはインデックスから削除します。
func (r *SessionRedis) activeIDs(ctx context.Context, userID uint) ([]string, error) {
	key := r.userSessionsKey(userID)
	ids, err := r.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	now := r.now()
	active := make([]string, 0, len(ids))
	var stale []interface{}
	for _, id := range ids {
		s, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, usecase.ErrSessionNotFound) {
				stale = append(stale, id)
				continue
			}
			return nil, err
		}
		if !s.IsValid(now) {
			stale = append(stale, id)
			continue
		}
		active = append(active, id)
	}

	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, key, stale...).Err(); err != nil {
			return nil, err
		}
	}
	return active, nil
}
