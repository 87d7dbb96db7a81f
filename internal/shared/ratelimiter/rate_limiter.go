// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は1分あたりの呼び出し回数をトークンバケットで制限します。
// nil の RateLimiter は制限なしとして振る舞います。
type RateLimiter struct {
	name    string
	limiter *rate.Limiter
}

// NewPerMinute は1分あたり perMinute 回まで許可するRateLimiterを生成します。
// perMinute が0以下の場合は nil を返し、制限は行いません。
func NewPerMinute(name string, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	every := time.Minute / time.Duration(perMinute)
	return &RateLimiter{
		name:    name,
		limiter: rate.NewLimiter(rate.Every(every), perMinute),
	}
}

// Wait はトークンが得られるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}
	if rl.limiter.Tokens() < 1 {
		slog.Debug("rate limit reached, waiting", "limiter", rl.name)
	}
	return rl.limiter.Wait(ctx)
}
