package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/auth/domain/entity"
	"stock_dashboard/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// newSession はテスト用のセッションを生成します。
func newSession(id string, userID uint, createdAt time.Time, expiresIn time.Duration) *entity.Session {
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(expiresIn),
	}
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)

	assert.Equal(t, "session", NewSessionRedis(client, "").prefix)
	assert.Equal(t, "sess", NewSessionRedis(client, "sess").prefix)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{"success: create session", newSession("session-001", 1, time.Now(), 7*24*time.Hour), false},
		{"failure: expired session", newSession("expired-session", 1, time.Now(), -time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, mr := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, mr.Exists(repo.sessionKey(tt.session.ID)))
				return
			}
			require.NoError(t, err)
			assert.True(t, mr.Exists(repo.sessionKey(tt.session.ID)))
			assert.Greater(t, mr.TTL(repo.sessionKey(tt.session.ID)), 6*24*time.Hour)

			members, err := mr.ZMembers(repo.userSessionsKey(1))
			require.NoError(t, err)
			assert.Equal(t, []string{"session-001"}, members)
		})
	}
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("find-me", 3, time.Now(), time.Hour)))

	got, err := repo.FindByID(ctx, "find-me")
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.UserID)
	assert.Equal(t, "test-agent", got.UserAgent)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	require.NoError(t, mr.Set(repo.sessionKey("broken"), "not json"))
	_, err = repo.FindByID(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("revoke-me", 1, time.Now(), 7*24*time.Hour)))

	require.NoError(t, repo.Revoke(ctx, "revoke-me"))

	got, err := repo.FindByID(ctx, "revoke-me")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked())
	assert.LessOrEqual(t, mr.TTL(repo.sessionKey("revoke-me")), revokedRetention)

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Revoke(ctx, "revoke-me"), usecase.ErrSessionNotFound, "second revoke")
	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionRedis_CountAndDeleteOldest(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.Create(ctx, newSession("second", 1, base.Add(-time.Hour), 2*time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("first", 1, base.Add(-2*time.Hour), 3*time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("third", 1, base, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("other", 2, base, time.Hour)))

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, repo.DeleteOldestByUserID(ctx, 1))

	_, err = repo.FindByID(ctx, "first")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	count, err = repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, repo.DeleteOldestByUserID(ctx, 99), "no sessions is not an error")
}

func TestSessionRedis_DeleteExpired(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, newSession("short", 1, now, time.Minute)))
	require.NoError(t, repo.Create(ctx, newSession("long", 1, now, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("short2", 2, now, time.Minute)))

	mr.FastForward(2 * time.Minute)

	removed, err := repo.DeleteExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	members, err := mr.ZMembers(repo.userSessionsKey(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, members)
}

func TestSessionRedis_KeyGeneration(t *testing.T) {
	repo := &SessionRedis{prefix: "myprefix"}

	assert.Equal(t, "myprefix:abc", repo.sessionKey("abc"))
	assert.Equal(t, "myprefix:user:12", repo.userSessionsKey(12))
}
