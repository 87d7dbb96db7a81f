// Package handler はquotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/domain/series"
	"stock_dashboard/internal/feature/quotes/transport/http/dto"
	"stock_dashboard/internal/feature/quotes/usecase"
)

// QuotesUsecase は株価データ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuotesUsecase interface {
	Series(ctx context.Context, market entity.Market, code string, days int) ([]entity.QuoteRecord, error)
	Chart(ctx context.Context, market entity.Market, symbols []entity.TrackedSymbol, days int) ([]series.ChartRow, error)
	Table(ctx context.Context, market entity.Market, symbols []entity.TrackedSymbol, days int, filter string, page int) (series.TablePage, error)
}

// QuotesHandler は株価データのHTTPリクエストを処理します。
type QuotesHandler struct {
	uc QuotesUsecase
}

// NewQuotesHandler は指定されたusecaseでQuotesHandlerの新しいインスタンスを生成します。
func NewQuotesHandler(uc QuotesUsecase) *QuotesHandler {
	return &QuotesHandler{uc: uc}
}

// GetSeries は1銘柄の重複除去済み日次データを新しい順で返します。
//
// エンドポイント例:
// GET /quotes/KR/005930?days=30
func (h *QuotesHandler) GetSeries(c *gin.Context) {
	market, ok := parseMarket(c)
	if !ok {
		return
	}
	params, err := api.BindSeriesParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	days := usecase.ClampDays(api.IntOr(params.Days, usecase.DefaultDays))
	code := c.Param("code")

	records, err := h.uc.Series(c.Request.Context(), market, code, days)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []entity.QuoteRecord{}
	}
	c.JSON(http.StatusOK, dto.SeriesResponse{Market: market, Code: code, Days: days, Records: records})
}

// Chart は複数銘柄を日付で結合したチャート行を古い順で返します。
//
// エンドポイント例:
// POST /quotes/KR/chart {"days":30,"symbols":[{"code":"005930","name":"삼성전자"}]}
func (h *QuotesHandler) Chart(c *gin.Context) {
	market, ok := parseMarket(c)
	if !ok {
		return
	}
	var req dto.ChartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("chart request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	rows, err := h.uc.Chart(c.Request.Context(), market, dto.Tracked(req.Symbols), req.Days)
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []series.ChartRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// Table は複数銘柄の日次データを新しい順に並べた表の1ページを返します。
//
// エンドポイント例:
// POST /quotes/KR/table {"days":30,"symbols":[...],"filter":"","page":1}
func (h *QuotesHandler) Table(c *gin.Context) {
	market, ok := parseMarket(c)
	if !ok {
		return
	}
	var req dto.TableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("table request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	page, err := h.uc.Table(c.Request.Context(), market, dto.Tracked(req.Symbols), req.Days, req.Filter, req.Page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func parseMarket(c *gin.Context) (entity.Market, bool) {
	m, err := entity.ParseMarket(c.Param("market"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return "", false
	}
	return m, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUnsupportedMarket), errors.Is(err, usecase.ErrEmptyCode):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("quotes request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
