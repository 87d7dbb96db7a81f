// Package dto はquotesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/quotes/domain/entity"
)

// SeriesResponse は GET /quotes/:market/:code のレスポンスです。
type SeriesResponse struct {
	Market  entity.Market        `json:"market"`
	Code    string               `json:"code"`
	Days    int                  `json:"days"`
	Records []entity.QuoteRecord `json:"records"`
}

// ChartReq は POST /quotes/:market/chart のリクエストボディです。
type ChartReq struct {
	Days    int          `json:"days"`
	Symbols []api.Symbol `json:"symbols" binding:"required,dive"`
}

// TableReq は POST /quotes/:market/table のリクエストボディです。
type TableReq struct {
	Days    int          `json:"days"`
	Symbols []api.Symbol `json:"symbols" binding:"required,dive"`
	Filter  string       `json:"filter"`
	Page    int          `json:"page"`
}

// Tracked はリクエストの銘柄一覧をドメインの TrackedSymbol に変換します。
// 表示名が空の場合は銘柄コードを使います。
func Tracked(symbols []api.Symbol) []entity.TrackedSymbol {
	out := make([]entity.TrackedSymbol, 0, len(symbols))
	for _, s := range symbols {
		name := s.Name
		if name == "" {
			name = s.Code
		}
		out = append(out, entity.TrackedSymbol{Code: s.Code, Name: name})
	}
	return out
}
