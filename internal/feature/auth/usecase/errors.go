package usecase

import "errors"

var (
	// ErrUserNotFound はメールアドレスまたはIDでユーザーが見つからない場合に返されます。
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists は登録済みのメールアドレスでサインアップした場合に返されます。
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しない場合に返されます。
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword はパスワードが最低文字数に満たない場合に返されます。
	ErrWeakPassword = errors.New("password too short")

	// ErrSessionNotFound はセッションが存在しない場合に返されます。
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidRefreshToken はリフレッシュトークンが不正・失効・期限切れの場合に返されます。
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
