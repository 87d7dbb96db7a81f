// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stock_dashboard/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// DefaultRefreshTTL はリフレッシュトークンの有効期間です。
	DefaultRefreshTTL = 7 * 24 * time.Hour

	// DefaultMaxSessions はユーザーごとに保持する有効セッションの上限です。
	DefaultMaxSessions = 5

	// refreshTokenBytes は64文字の16進数になるバイト数です。
	refreshTokenBytes = 32

	// dummyHash はユーザー未検出時にもbcrypt比較を行うためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを保存します。メールアドレス重複時はErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスでユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はIDでユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator はアクセストークン生成のインターフェースを定義します。
type JWTGenerator interface {
	GenerateToken(userID uint, email string) (string, error)
	Expiration() time.Duration
}

// ClientInfo はセッションに記録する接続元の情報です。
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// TokenPair はログイン・リフレッシュ成功時に返すトークンの組です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // アクセストークンの有効秒数
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	refreshTTL   time.Duration
	maxSessions  int64
	now          func() time.Time
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		refreshTTL:   DefaultRefreshTTL,
		maxSessions:  DefaultMaxSessions,
		now:          time.Now,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *AuthUsecase) Signup(ctx context.Context, email, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.users.Create(ctx, &entity.User{Email: email, Password: string(hashed)})
}

// Login はユーザーを認証し、アクセストークンと新しいリフレッシュトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, email, password string, client ClientInfo) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(ctx, user, client)
}

// Refresh はリフレッシュトークンをローテーションし、新しいトークンの組を返します。
// 使用済みのトークンは失効させます。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*TokenPair, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !session.IsValid(u.now()) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return u.issue(ctx, user, client)
}

// Logout はリフレッシュトークンを失効させます。存在しないトークンは成功として扱います。
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// PurgeExpiredSessions は期限切れセッションを削除します。スケジューラから定期的に呼ばれます。
func (u *AuthUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}

// issue はセッション上限を守りつつ新しいセッションとアクセストークンを発行します。
func (u *AuthUsecase) issue(ctx context.Context, user *entity.User, client ClientInfo) (*TokenPair, error) {
	access, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	for ; count >= u.maxSessions; count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to delete oldest session: %w", err)
		}
		slog.Info("session limit reached, oldest session deleted", "user_id", user.ID)
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	now := u.now()
	session := &entity.Session{
		ID:        refresh,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.refreshTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(u.jwtGenerator.Expiration().Seconds()),
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
