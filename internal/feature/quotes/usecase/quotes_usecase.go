// Package usecase は株価データの取得と正規化を行うビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/domain/series"
)

const (
	// DefaultDays は日数未指定時の取得期間です。
	DefaultDays = 30
	// MaxDays は取得期間の上限です。
	MaxDays = 3650
)

// MarketRepository は市場ごとの株価データ取得元を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 実装は失敗時にログを出力して空のスライスを返します。
type MarketRepository interface {
	// DailySeries は銘柄の直近 days 日分の日次データを返します。
	DailySeries(ctx context.Context, code string, days int) []entity.QuoteRecord
	// Search は銘柄名やコードで検索します。
	Search(ctx context.Context, query string) []entity.QuoteRecord
}

// QuotesUsecase は市場ごとのリポジトリから日次データを取得し、
// チャート・テーブル用に整形します。
type QuotesUsecase struct {
	markets map[entity.Market]MarketRepository
}

// NewQuotesUsecase はQuotesUsecaseの新しいインスタンスを生成します。
func NewQuotesUsecase(markets map[entity.Market]MarketRepository) *QuotesUsecase {
	return &QuotesUsecase{markets: markets}
}

// ClampDays は日数を [1, MaxDays] に収めます。0以下は DefaultDays とします。
func ClampDays(days int) int {
	if days <= 0 {
		return DefaultDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

func (u *QuotesUsecase) repo(market entity.Market) (MarketRepository, error) {
	r, ok := u.markets[market]
	if !ok || r == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMarket, market)
	}
	return r, nil
}

// Series は1銘柄の重複を除いた日次データを新しい順で返します。
func (u *QuotesUsecase) Series(ctx context.Context, market entity.Market, code string, days int) ([]entity.QuoteRecord, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	r, err := u.repo(market)
	if err != nil {
		return nil, err
	}
	return series.Dedupe(r.DailySeries(ctx, code, ClampDays(days))), nil
}

// FetchAll は各銘柄の日次データを並行して取得し、銘柄コードをキーにしたマップで返します。
// 取得結果が空の銘柄はマップに含まれません。
func (u *QuotesUsecase) FetchAll(ctx context.Context, market entity.Market, symbols []entity.TrackedSymbol, days int) (map[string][]entity.QuoteRecord, error) {
	r, err := u.repo(market)
	if err != nil {
		return nil, err
	}
	days = ClampDays(days)

	var (
		mu  sync.Mutex
		out = make(map[string][]entity.QuoteRecord, len(symbols))
		g   errgroup.Group
	)
	for _, sym := range symbols {
		code := sym.Code
		g.Go(func() error {
			recs := r.DailySeries(ctx, code, days)
			if len(recs) == 0 {
				return nil
			}
			mu.Lock()
			out[code] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Chart は複数銘柄の終値を日付ごとに結合したチャート行を古い順で返します。
func (u *QuotesUsecase) Chart(ctx context.Context, market entity.Market, symbols []entity.TrackedSymbol, days int) ([]series.ChartRow, error) {
	symbols = series.UniqueSymbols(symbols)
	data, err := u.FetchAll(ctx, market, symbols, days)
	if err != nil {
		return nil, err
	}
	return series.MergeChart(symbols, data), nil
}

// Table は複数銘柄の日次データを1行1銘柄1日に展開し、指定ページを返します。
func (u *QuotesUsecase) Table(ctx context.Context, market entity.Market, symbols []entity.TrackedSymbol, days int, filter string, page int) (series.TablePage, error) {
	symbols = series.UniqueSymbols(symbols)
	data, err := u.FetchAll(ctx, market, symbols, days)
	if err != nil {
		return series.TablePage{}, err
	}
	rows := series.FlattenTable(market, symbols, data, filter)
	return series.Paginate(rows, page, series.DefaultPerPage), nil
}
