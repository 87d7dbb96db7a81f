package usecase

import (
	"context"

	"stock_dashboard/internal/feature/auth/domain/entity"
)

// SessionRepository はリフレッシュセッションの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 実装はPostgreSQL（adapters）とRedis（platform/session）の2つです。
type SessionRepository interface {
	// Create は新しいセッションを保存します。
	Create(ctx context.Context, session *entity.Session) error

	// FindByID はリフレッシュトークンでセッションを取得します。存在しない場合はErrSessionNotFoundです。
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke はセッションを失効させます。
	Revoke(ctx context.Context, id string) error

	// CountByUserID はユーザーの有効なセッション数を返します。
	CountByUserID(ctx context.Context, userID uint) (int64, error)

	// DeleteOldestByUserID はユーザーの最も古い有効セッションを削除します。
	DeleteOldestByUserID(ctx context.Context, userID uint) error

	// DeleteExpired は期限切れセッションを削除し、削除件数を返します。
	DeleteExpired(ctx context.Context) (int64, error)
}
