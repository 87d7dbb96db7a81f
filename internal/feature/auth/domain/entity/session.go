package entity

import "time"

// Session はリフレッシュトークン1つ分のログインセッションです。
type Session struct {
	ID        string     `json:"id"` // リフレッシュトークン（64文字の16進数）
	UserID    uint       `json:"user_id"`
	UserAgent string     `json:"user_agent"`
	IPAddress string     `json:"ip_address"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IsExpired は有効期限を過ぎているかを返します。
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsRevoked は失効済みかを返します。
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid は期限内かつ失効していない場合にtrueを返します。
func (s *Session) IsValid(now time.Time) bool {
	return !s.IsExpired(now) && !s.IsRevoked()
}
