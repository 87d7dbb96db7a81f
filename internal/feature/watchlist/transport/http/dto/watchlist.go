// Package dto はwatchlistフィーチャーのHTTPリクエスト・レスポンスを定義します。
package dto

import (
	"stock_dashboard/internal/api"
	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
)

// AddReq はPOST /watchlistのリクエストボディです。marketは省略時KRです。
type AddReq struct {
	Market string `json:"market"`
	api.Symbol
}

// MigrateReq はPOST /watchlist/migrateのリクエストボディです。
type MigrateReq struct {
	KR []api.Symbol `json:"kr" binding:"dive"`
	US []api.Symbol `json:"us" binding:"dive"`
}

// ListRes はウォッチリスト取得のレスポンスです。entriesは常に配列です。
type ListRes struct {
	Success bool                   `json:"success"`
	Market  quotes.Market          `json:"market"`
	Entries []quotes.TrackedSymbol `json:"entries"`
}

// MigrateRes は取り込み結果です。
type MigrateRes struct {
	Success bool `json:"success"`
	Added   int  `json:"added"`
}

// ToTracked はapi.Symbolをドメインの型に変換します。
func ToTracked(symbols []api.Symbol) []quotes.TrackedSymbol {
	out := make([]quotes.TrackedSymbol, len(symbols))
	for i, s := range symbols {
		out[i] = quotes.TrackedSymbol{Code: s.Code, Name: s.Name}
	}
	return out
}
