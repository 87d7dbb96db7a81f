// Package scheduler は定期実行ジョブ（期限切れセッションの削除など）をcronで管理します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout は1回のジョブ実行に許す時間です。
const jobTimeout = time.Minute

// SessionPurger は期限切れセッションを削除します。
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler はcronジョブを管理します。
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

// New はScheduler を生成します。スケジュールは秒フィールド付きの6項目です。
func New(ctx context.Context) *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds()), ctx: ctx}
}

// RegisterSessionPurge は期限切れセッションの削除ジョブを登録します。
func (s *Scheduler) RegisterSessionPurge(spec string, purger SessionPurger) error {
	if _, err := s.cron.AddFunc(spec, func() { s.purgeSessions(purger) }); err != nil {
		return fmt.Errorf("register session purge: %w", err)
	}
	return nil
}

// Start はスケジューラーを開始します。
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop は実行中のジョブの完了を待って停止します。
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) purgeSessions(purger SessionPurger) {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	n, err := purger.PurgeExpiredSessions(ctx)
	if err != nil {
		slog.Error("session purge failed", "error", err)
		return
	}
	slog.Info("expired sessions purged", "count", n)
}
