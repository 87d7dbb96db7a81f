package api

import (
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// SeriesParams defines parameters for GET /quotes/{market}/{code}.
type SeriesParams struct {
	Days *int `form:"days" json:"days,omitempty"`
}

// ListSymbolsParams defines parameters for GET /symbols.
type ListSymbolsParams struct {
	Market *string `form:"market" json:"market,omitempty"`
	Limit  *int    `form:"limit" json:"limit,omitempty"`
}

// SearchSymbolsParams defines parameters for GET /symbols/search.
type SearchSymbolsParams struct {
	Market *string `form:"market" json:"market,omitempty"`
	Q      string  `form:"q" json:"q"`
}

// MarketParams defines the market query parameter used by the watchlist endpoints.
type MarketParams struct {
	Market *string `form:"market" json:"market,omitempty"`
}

// DashboardParams defines parameters for GET /dashboard.
type DashboardParams struct {
	Filter *string `form:"filter" json:"filter,omitempty"`
	Page   *int    `form:"page" json:"page,omitempty"`
}

// bind binds one form-style query parameter.
func bind(q url.Values, name string, required bool, dest any) error {
	return runtime.BindQueryParameter("form", true, required, name, q, dest)
}

// BindSeriesParams binds SeriesParams from a query string.
func BindSeriesParams(q url.Values) (SeriesParams, error) {
	var p SeriesParams
	err := bind(q, "days", false, &p.Days)
	return p, err
}

// BindListSymbolsParams binds ListSymbolsParams from a query string.
func BindListSymbolsParams(q url.Values) (ListSymbolsParams, error) {
	var p ListSymbolsParams
	if err := bind(q, "market", false, &p.Market); err != nil {
		return p, err
	}
	err := bind(q, "limit", false, &p.Limit)
	return p, err
}

// BindSearchSymbolsParams binds SearchSymbolsParams from a query string. q is required.
func BindSearchSymbolsParams(q url.Values) (SearchSymbolsParams, error) {
	var p SearchSymbolsParams
	if err := bind(q, "market", false, &p.Market); err != nil {
		return p, err
	}
	err := bind(q, "q", true, &p.Q)
	return p, err
}

// BindMarketParams binds MarketParams from a query string.
func BindMarketParams(q url.Values) (MarketParams, error) {
	var p MarketParams
	err := bind(q, "market", false, &p.Market)
	return p, err
}

// BindDashboardParams binds DashboardParams from a query string.
func BindDashboardParams(q url.Values) (DashboardParams, error) {
	var p DashboardParams
	if err := bind(q, "filter", false, &p.Filter); err != nil {
		return p, err
	}
	err := bind(q, "page", false, &p.Page)
	return p, err
}

// StringOr dereferences s, returning def when s is nil.
func StringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// IntOr dereferences i, returning def when i is nil.
func IntOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}
