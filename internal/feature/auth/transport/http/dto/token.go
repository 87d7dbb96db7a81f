package dto

// RefreshReq は/refreshと/logoutのリクエストボディです。
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenRes はログイン・リフレッシュ成功時のレスポンスです。
type TokenRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
