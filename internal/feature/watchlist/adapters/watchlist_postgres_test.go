package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/watchlist/usecase"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...), "failed to migrate tables")
	return db
}

func TestWatchlistPostgres_Portfolio(t *testing.T) {
	repo := NewWatchlistPostgres(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.FindPortfolioID(ctx, 1)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	pid, err := repo.CreatePortfolio(ctx, 1)
	require.NoError(t, err)
	assert.NotZero(t, pid)

	got, err := repo.FindPortfolioID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, pid, got)

	_, err = repo.CreatePortfolio(ctx, 1)
	assert.ErrorIs(t, err, usecase.ErrAlreadyExists, "one portfolio per user")

	var p PortfolioModel
	require.NoError(t, repo.db.First(&p, pid).Error)
	assert.Equal(t, DefaultPortfolioName, p.Name)
}

func TestWatchlistPostgres_Holdings(t *testing.T) {
	repo := NewWatchlistPostgres(setupTestDB(t))
	ctx := context.Background()
	pid, err := repo.CreatePortfolio(ctx, 1)
	require.NoError(t, err)

	samsung := quotes.TrackedSymbol{Code: "005930", Name: "삼성전자"}
	hynix := quotes.TrackedSymbol{Code: "000660", Name: "SK하이닉스"}
	apple := quotes.TrackedSymbol{Code: "AAPL", Name: "Apple"}

	require.NoError(t, repo.AddHolding(ctx, pid, quotes.MarketKR, samsung))
	require.NoError(t, repo.AddHolding(ctx, pid, quotes.MarketKR, hynix))
	require.NoError(t, repo.AddHolding(ctx, pid, quotes.MarketUS, apple))

	assert.ErrorIs(t, repo.AddHolding(ctx, pid, quotes.MarketKR, samsung), usecase.ErrAlreadyExists)
	assert.NoError(t, repo.AddHolding(ctx, pid, quotes.MarketUS, samsung), "same code on another market is allowed")

	kr, err := repo.ListHoldings(ctx, pid, quotes.MarketKR)
	require.NoError(t, err)
	assert.Equal(t, []quotes.TrackedSymbol{samsung, hynix}, kr, "insertion order")

	var h HoldingModel
	require.NoError(t, repo.db.Where("symbol = ?", "AAPL").First(&h).Error)
	assert.Equal(t, "1", h.Quantity.String())
	assert.True(t, h.BuyPrice.IsZero())
	assert.False(t, h.BuyDate.IsZero())

	require.NoError(t, repo.RemoveHolding(ctx, pid, quotes.MarketKR, "005930"))
	assert.ErrorIs(t, repo.RemoveHolding(ctx, pid, quotes.MarketKR, "005930"), usecase.ErrNotFound)

	require.NoError(t, repo.ClearHoldings(ctx, pid, quotes.MarketUS))
	us, err := repo.ListHoldings(ctx, pid, quotes.MarketUS)
	require.NoError(t, err)
	assert.Empty(t, us)

	kr, err = repo.ListHoldings(ctx, pid, quotes.MarketKR)
	require.NoError(t, err)
	assert.Equal(t, []quotes.TrackedSymbol{hynix}, kr, "clearing US keeps KR")
}

// TestWatchlistUsecase_WithPostgres はusecaseとリポジトリを組み合わせた一連の操作を検証します。
func TestWatchlistUsecase_WithPostgres(t *testing.T) {
	uc := usecase.NewWatchlistUsecase(NewWatchlistPostgres(setupTestDB(t)))
	ctx := context.Background()

	list, err := uc.List(ctx, 7, quotes.MarketKR)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, uc.Add(ctx, 7, quotes.MarketKR, quotes.TrackedSymbol{Code: "005930", Name: "삼성전자"}))
	assert.ErrorIs(t, uc.Add(ctx, 7, quotes.MarketKR, quotes.TrackedSymbol{Code: "005930"}), usecase.ErrAlreadyExists)

	added, err := uc.Migrate(ctx, 7,
		[]quotes.TrackedSymbol{{Code: "005930", Name: "삼성전자"}, {Code: "035720", Name: "카카오"}},
		[]quotes.TrackedSymbol{{Code: "AAPL", Name: "Apple"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = uc.Migrate(ctx, 7,
		[]quotes.TrackedSymbol{{Code: "035720", Name: "카카오"}},
		[]quotes.TrackedSymbol{{Code: "AAPL", Name: "Apple"}},
	)
	require.NoError(t, err)
	assert.Zero(t, added, "migration is idempotent")

	list, err = uc.List(ctx, 7, quotes.MarketKR)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
