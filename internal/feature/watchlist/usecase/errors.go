package usecase

import "errors"

var (
	// ErrAlreadyExists は同じ市場に同じ銘柄が登録済みの場合に返されます。
	ErrAlreadyExists = errors.New("symbol already in watchlist")

	// ErrNotFound は対象のポートフォリオまたは銘柄が存在しない場合に返されます。
	ErrNotFound = errors.New("not found")

	// ErrEmptyCode は銘柄コードが空の場合に返されます。
	ErrEmptyCode = errors.New("code is required")
)
