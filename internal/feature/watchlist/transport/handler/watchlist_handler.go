// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
// すべてのルートはjwtmw.AuthRequiredの配下に置かれます。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/watchlist/transport/http/dto"
	"stock_dashboard/internal/feature/watchlist/usecase"
	jwtmw "stock_dashboard/internal/platform/jwt"
)

// WatchlistUsecase はウォッチリスト操作のユースケースを定義します。
type WatchlistUsecase interface {
	List(ctx context.Context, userID uint, market quotes.Market) ([]quotes.TrackedSymbol, error)
	Add(ctx context.Context, userID uint, market quotes.Market, entry quotes.TrackedSymbol) error
	Remove(ctx context.Context, userID uint, market quotes.Market, code string) error
	Reset(ctx context.Context, userID uint, market quotes.Market) error
	Migrate(ctx context.Context, userID uint, kr, us []quotes.TrackedSymbol) (int, error)
}

// WatchlistHandler はウォッチリストのHTTPリクエストを処理します。
type WatchlistHandler struct {
	uc WatchlistUsecase
}

// NewWatchlistHandler はWatchlistHandlerを生成します。
func NewWatchlistHandler(uc WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{uc: uc}
}

// List はGET /watchlist?market=KR を処理します。
func (h *WatchlistHandler) List(c *gin.Context) {
	userID, market, ok := h.scope(c)
	if !ok {
		return
	}
	entries, err := h.uc.List(c.Request.Context(), userID, market)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListRes{Success: true, Market: market, Entries: entries})
}

// Add はPOST /watchlist を処理します。
func (h *WatchlistHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.AddReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: "invalid request"})
		return
	}
	market := quotes.MarketKR
	if req.Market != "" {
		m, err := quotes.ParseMarket(req.Market)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: err.Error()})
			return
		}
		market = m
	}

	entry := quotes.TrackedSymbol{Code: req.Code, Name: req.Name}
	if err := h.uc.Add(c.Request.Context(), userID, market, entry); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.Result{Success: true, Message: "added"})
}

// Remove はDELETE /watchlist/:code?market=KR を処理します。
func (h *WatchlistHandler) Remove(c *gin.Context) {
	userID, market, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.uc.Remove(c.Request.Context(), userID, market, c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.Result{Success: true, Message: "removed"})
}

// Reset はDELETE /watchlist?market=KR を処理します。
func (h *WatchlistHandler) Reset(c *gin.Context) {
	userID, market, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.uc.Reset(c.Request.Context(), userID, market); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.Result{Success: true, Message: "reset"})
}

// Migrate はPOST /watchlist/migrate を処理します。
func (h *WatchlistHandler) Migrate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.MigrateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: "invalid request"})
		return
	}
	added, err := h.uc.Migrate(c.Request.Context(), userID, dto.ToTracked(req.KR), dto.ToTracked(req.US))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MigrateRes{Success: true, Added: added})
}

// scope は認証ユーザーとmarketクエリを取り出します。失敗時はレスポンス済みです。
func (h *WatchlistHandler) scope(c *gin.Context) (uint, quotes.Market, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return 0, "", false
	}
	params, err := api.BindMarketParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: err.Error()})
		return 0, "", false
	}
	market, err := quotes.ParseMarket(api.StringOr(params.Market, string(quotes.MarketKR)))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: err.Error()})
		return 0, "", false
	}
	return userID, market, true
}

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Unauthorized)
		return 0, false
	}
	return userID, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrAlreadyExists):
		c.JSON(http.StatusConflict, api.Result{Success: false, Message: err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, api.Result{Success: false, Message: err.Error()})
	case errors.Is(err, usecase.ErrEmptyCode):
		c.JSON(http.StatusBadRequest, api.Result{Success: false, Message: err.Error()})
	default:
		slog.Error("watchlist operation failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.Result{Success: false, Message: "internal error"})
	}
}
