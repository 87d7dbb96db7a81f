package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/watchlist/usecase"
	"stock_dashboard/internal/platform/db"
)

// watchlistPostgres はusecase.RepositoryのPostgreSQL実装です。
type watchlistPostgres struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.Repository = (*watchlistPostgres)(nil)

// NewWatchlistPostgres はwatchlistPostgresを生成します。
func NewWatchlistPostgres(db *gorm.DB) *watchlistPostgres {
	return &watchlistPostgres{db: db, now: time.Now}
}

// FindPortfolioID はユーザーのポートフォリオIDを返します。
func (r *watchlistPostgres) FindPortfolioID(ctx context.Context, userID uint) (uint, error) {
	var p PortfolioModel
	if err := r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, usecase.ErrNotFound
		}
		return 0, err
	}
	return p.ID, nil
}

// CreatePortfolio はデフォルト名のポートフォリオを作成します。
func (r *watchlistPostgres) CreatePortfolio(ctx context.Context, userID uint) (uint, error) {
	p := PortfolioModel{UserID: userID, Name: DefaultPortfolioName}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return 0, usecase.ErrAlreadyExists
		}
		return 0, err
	}
	return p.ID, nil
}

// ListHoldings は市場の保有銘柄を登録順で返します。
func (r *watchlistPostgres) ListHoldings(ctx context.Context, portfolioID uint, market quotes.Market) ([]quotes.TrackedSymbol, error) {
	var rows []HoldingModel
	if err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND market = ?", portfolioID, string(market)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]quotes.TrackedSymbol, len(rows))
	for i, h := range rows {
		out[i] = quotes.TrackedSymbol{Code: h.Symbol, Name: h.Name}
	}
	return out, nil
}

// AddHolding は銘柄を追加します。一意制約違反はErrAlreadyExistsに変換します。
func (r *watchlistPostgres) AddHolding(ctx context.Context, portfolioID uint, market quotes.Market, entry quotes.TrackedSymbol) error {
	h := HoldingModel{
		PortfolioID: portfolioID,
		Market:      string(market),
		Symbol:      entry.Code,
		Name:        entry.Name,
		Quantity:    decimal.NewFromInt(1),
		BuyPrice:    decimal.Zero,
		BuyDate:     r.now(),
	}
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// RemoveHolding は銘柄を削除します。
func (r *watchlistPostgres) RemoveHolding(ctx context.Context, portfolioID uint, market quotes.Market, code string) error {
	result := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND market = ? AND symbol = ?", portfolioID, string(market), code).
		Delete(&HoldingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// ClearHoldings は市場の保有銘柄をすべて削除します。
func (r *watchlistPostgres) ClearHoldings(ctx context.Context, portfolioID uint, market quotes.Market) error {
	return r.db.WithContext(ctx).
		Where("portfolio_id = ? AND market = ?", portfolioID, string(market)).
		Delete(&HoldingModel{}).Error
}
