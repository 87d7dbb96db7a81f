// Package handler はdashboardフィーチャーのHTTPハンドラーを提供します。
// ルートはjwtmw.OptionalAuthの配下に置き、ログイン時はウォッチリストを使います。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
	"stock_dashboard/internal/feature/dashboard/transport/http/dto"
	"stock_dashboard/internal/feature/dashboard/usecase"
	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/platform/clientstate"
	jwtmw "stock_dashboard/internal/platform/jwt"
)

const (
	// ClientIDCookie は未ログインのクライアントを識別するCookie名です。
	ClientIDCookie = "client_id"
	clientIDMaxAge = 365 * 24 * 60 * 60
)

// DashboardHandler はダッシュボードのHTTPリクエストを処理します。
// リクエストごとにusecase.Controllerを組み立てます。
type DashboardHandler struct {
	states       clientstate.Provider
	quotes       usecase.QuoteFetcher
	watchlist    usecase.Persister
	secureCookie bool
}

// NewDashboardHandler はDashboardHandlerを生成します。
func NewDashboardHandler(states clientstate.Provider, quotes usecase.QuoteFetcher, watchlist usecase.Persister, secureCookie bool) *DashboardHandler {
	return &DashboardHandler{states: states, quotes: quotes, watchlist: watchlist, secureCookie: secureCookie}
}

// Get はGET /dashboard?filter=&page= を処理します。
func (h *DashboardHandler) Get(c *gin.Context) {
	params, err := api.BindDashboardParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	ctl := h.controller(c)
	h.render(c, ctl, api.StringOr(params.Filter, ""), api.IntOr(params.Page, 1))
}

// UpdateSettings はPUT /dashboard/settings を処理します。
func (h *DashboardHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	ctx := c.Request.Context()
	ctl := h.controller(c)
	if req.Market != "" {
		m, err := quotes.ParseMarket(req.Market)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		if err := ctl.SetMarket(ctx, m); err != nil {
			writeError(c, err)
			return
		}
	}
	if req.TimeRange != "" {
		r, err := entity.ParseTimeRange(req.TimeRange)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		if err := ctl.SetTimeRange(ctx, r); err != nil {
			writeError(c, err)
			return
		}
	}
	if req.ViewMode != "" {
		v, err := entity.ParseViewMode(req.ViewMode)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		if err := ctl.SetViewMode(ctx, v); err != nil {
			writeError(c, err)
			return
		}
	}
	h.render(c, ctl, "", 1)
}

// AddSymbol はPOST /dashboard/symbols を処理します。
func (h *DashboardHandler) AddSymbol(c *gin.Context) {
	var req api.Symbol
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	ctl := h.controller(c)
	if err := ctl.AddSymbol(c.Request.Context(), quotes.TrackedSymbol{Code: req.Code, Name: req.Name}); err != nil {
		writeError(c, err)
		return
	}
	h.render(c, ctl, "", 1)
}

// RemoveSymbol はDELETE /dashboard/symbols/:code を処理します。
func (h *DashboardHandler) RemoveSymbol(c *gin.Context) {
	ctl := h.controller(c)
	if err := ctl.RemoveSymbol(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	h.render(c, ctl, "", 1)
}

// Reset はDELETE /dashboard/symbols を処理します。
func (h *DashboardHandler) Reset(c *gin.Context) {
	ctl := h.controller(c)
	if err := ctl.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	h.render(c, ctl, "", 1)
}

// Visit はPOST /dashboard/visit を処理します。
func (h *DashboardHandler) Visit(c *gin.Context) {
	ctl := h.controller(c)
	n, required, err := ctl.RecordVisit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VisitRes{UsageCount: n, Quota: entity.AnonymousQuota, SignInRequired: required})
}

// Migrate はPOST /dashboard/migrate を処理します。ログインが必要です。
func (h *DashboardHandler) Migrate(c *gin.Context) {
	if _, ok := jwtmw.UserID(c); !ok {
		c.JSON(http.StatusUnauthorized, api.Unauthorized)
		return
	}
	ctl := h.controller(c)
	added, err := ctl.MigrateToUser(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MigrateRes{Success: true, Added: added})
}

// controller はリクエストのクライアントIDとユーザーからControllerを組み立てて状態を読み込みます。
func (h *DashboardHandler) controller(c *gin.Context) *usecase.Controller {
	ctl := usecase.NewController(h.states.For(h.clientID(c)), h.quotes)
	if userID, ok := jwtmw.UserID(c); ok && h.watchlist != nil {
		ctl.AttachUser(userID, h.watchlist)
	}
	ctl.Load(c.Request.Context())
	return ctl
}

// clientID はCookieのクライアントIDを返します。ない場合や不正な場合は新しく発行します。
func (h *DashboardHandler) clientID(c *gin.Context) string {
	if v, err := c.Cookie(ClientIDCookie); err == nil {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ClientIDCookie, id, clientIDMaxAge, "/", "", h.secureCookie, true)
	return id
}

// render は系列を取得して現在の表示を返します。
func (h *DashboardHandler) render(c *gin.Context, ctl *usecase.Controller, filter string, page int) {
	if err := ctl.Refresh(c.Request.Context()); err != nil {
		slog.Warn("dashboard refresh failed", "error", err)
	}
	c.JSON(http.StatusOK, ctl.View(filter, page))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSignInRequired):
		c.JSON(http.StatusUnauthorized, api.Unauthorized)
	case errors.Is(err, usecase.ErrEmptyCode):
		c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: err.Error()})
	default:
		slog.Error("dashboard operation failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.Result{Success: false, Message: "internal error"})
	}
}
