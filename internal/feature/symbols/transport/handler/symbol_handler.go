package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/symbols/domain/entity"
	"stock_dashboard/internal/feature/symbols/transport/http/dto"
	"stock_dashboard/internal/feature/symbols/usecase"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	List(ctx context.Context, market quotes.Market, limit int) ([]entity.Symbol, error)
	Search(ctx context.Context, market quotes.Market, query string) ([]entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は市場のデフォルト銘柄一覧を返します。
//
// エンドポイント例:
// GET /symbols?market=KR&limit=20
func (h *SymbolHandler) List(c *gin.Context) {
	params, err := api.BindListSymbolsParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	market, err := quotes.ParseMarket(api.StringOr(params.Market, string(quotes.MarketKR)))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	symbols, err := h.uc.List(c.Request.Context(), market, api.IntOr(params.Limit, usecase.DefaultListLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItems(symbols))
}

// Search は銘柄名で検索した結果を返します。
//
// エンドポイント例:
// GET /symbols/search?market=KR&q=삼성
func (h *SymbolHandler) Search(c *gin.Context) {
	params, err := api.BindSearchSymbolsParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	market, err := quotes.ParseMarket(api.StringOr(params.Market, string(quotes.MarketKR)))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	symbols, err := h.uc.Search(c.Request.Context(), market, params.Q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItems(symbols))
}

func toItems(symbols []entity.Symbol) []dto.SymbolItem {
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{
			Code:       s.Code,
			Name:       s.Name,
			Price:      s.Price,
			ChangeRate: s.ChangeRate,
			Date:       s.Date,
		})
	}
	return out
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrEmptyQuery) || errors.Is(err, usecase.ErrUnsupportedMarket) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
}
