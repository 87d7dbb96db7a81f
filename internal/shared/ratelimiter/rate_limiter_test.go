package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerMinute_Disabled(t *testing.T) {
	t.Parallel()

	rl := NewPerMinute("test", 0)

	assert.Nil(t, rl)
	assert.NoError(t, rl.Wait(context.Background()), "nil limiter never blocks")
}

func TestRateLimiter_BurstThenBlocks(t *testing.T) {
	t.Parallel()

	rl := NewPerMinute("test", 2)
	require.NotNil(t, rl)

	ctx := context.Background()
	require.NoError(t, rl.Wait(ctx))
	require.NoError(t, rl.Wait(ctx))

	// 3回目はバーストを使い切っているため、約30秒待つ必要がある
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(short))
}
