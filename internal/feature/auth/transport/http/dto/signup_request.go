package dto

// SignupReq は/signupエンドポイントのリクエストボディです。
type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
