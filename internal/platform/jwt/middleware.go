package jwtmw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"stock_dashboard/internal/api"
)

// ContextUserID はgin.Contextに保存される認証済みユーザーIDのキーです。
const ContextUserID = "userID"

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// AuthRequired は有効なBearerトークンを必須とするミドルウェアを返します。
// 失敗時は401 {"success":false,"message":"Unauthorized"} で中断します。
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server misconfigured"})
			return
		}
		userID, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Unauthorized)
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuth はトークンがあれば検証してユーザーIDを設定し、なければ匿名のまま通します。
// 不正なトークンは匿名として扱います。
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" {
			if userID, err := parseBearer(c.GetHeader("Authorization"), secret); err == nil {
				c.Set(ContextUserID, userID)
			}
		}
		c.Next()
	}
}

// UserID はミドルウェアが設定したユーザーIDを返します。
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// parseBearer はAuthorizationヘッダーを検証してsubクレームを返します。
func parseBearer(header, secret string) (uint, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, errMissingToken
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidToken
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok || sub <= 0 {
		return 0, errInvalidToken
	}
	return uint(sub), nil
}
