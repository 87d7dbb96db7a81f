// Package entity はauthフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// User は登録済みユーザーです。ウォッチリストはユーザーIDに紐づきます。
type User struct {
	ID uint `gorm:"primaryKey"`

	// Email は認証に使うメールアドレスで、全ユーザーで一意です。
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password はbcryptハッシュです。平文は保存しません。
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
