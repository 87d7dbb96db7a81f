// Package dto はdashboardフィーチャーのHTTPリクエスト・レスポンスを定義します。
package dto

// SettingsReq はPUT /dashboard/settingsのリクエストボディです。空の項目は変更しません。
type SettingsReq struct {
	Market    string `json:"market"`
	TimeRange string `json:"timeRange"`
	ViewMode  string `json:"viewMode"`
}

// VisitRes は訪問記録の結果です。
type VisitRes struct {
	UsageCount     int  `json:"usageCount"`
	Quota          int  `json:"quota"`
	SignInRequired bool `json:"signInRequired"`
}

// MigrateRes はローカルリスト取り込みの結果です。
type MigrateRes struct {
	Success bool `json:"success"`
	Added   int  `json:"added"`
}
