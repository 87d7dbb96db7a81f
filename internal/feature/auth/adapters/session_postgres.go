package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stock_dashboard/internal/feature/auth/domain/entity"
	"stock_dashboard/internal/feature/auth/usecase"
)

// sessionPostgres はSessionRepositoryのPostgreSQL実装です。Redisがない環境で使います。
type sessionPostgres struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.SessionRepository = (*sessionPostgres)(nil)

// NewSessionPostgres はsessionPostgresを生成します。
func NewSessionPostgres(db *gorm.DB) *sessionPostgres {
	return &sessionPostgres{db: db, now: time.Now}
}

// Create はセッションを保存します。
func (r *sessionPostgres) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(sessionModelFromEntity(session)).Error
}

// FindByID はリフレッシュトークンでセッションを取得します。
func (r *sessionPostgres) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.toEntity(), nil
}

// Revoke はrevoked_atを設定してセッションを失効させます。
func (r *sessionPostgres) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", r.now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// CountByUserID は有効なセッション数を返します。
func (r *sessionPostgres) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.active(ctx, userID).Model(&SessionModel{}).Count(&count).Error
	return count, err
}

// DeleteOldestByUserID は最も古い有効セッションを削除します。
func (r *sessionPostgres) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest SessionModel
	if err := r.active(ctx, userID).Order("created_at ASC").First(&oldest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", oldest.ID).Error
}

// DeleteExpired は期限切れのセッションを削除します。
func (r *sessionPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", r.now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}

func (r *sessionPostgres) active(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, r.now())
}
