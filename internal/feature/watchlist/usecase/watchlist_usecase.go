// Package usecase はウォッチリスト（ユーザーごとの監視銘柄）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
)

// Repository はポートフォリオと保有銘柄の永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Repository interface {
	// FindPortfolioID はユーザーのポートフォリオIDを返します。存在しない場合はErrNotFoundです。
	FindPortfolioID(ctx context.Context, userID uint) (uint, error)
	// CreatePortfolio はユーザーのポートフォリオを作成します。既に存在する場合はErrAlreadyExistsです。
	CreatePortfolio(ctx context.Context, userID uint) (uint, error)
	// ListHoldings は市場ごとの保有銘柄を登録順で返します。
	ListHoldings(ctx context.Context, portfolioID uint, market quotes.Market) ([]quotes.TrackedSymbol, error)
	// AddHolding は銘柄を追加します。重複時はErrAlreadyExistsです。
	AddHolding(ctx context.Context, portfolioID uint, market quotes.Market, entry quotes.TrackedSymbol) error
	// RemoveHolding は銘柄を削除します。存在しない場合はErrNotFoundです。
	RemoveHolding(ctx context.Context, portfolioID uint, market quotes.Market, code string) error
	// ClearHoldings は市場の保有銘柄をすべて削除します。
	ClearHoldings(ctx context.Context, portfolioID uint, market quotes.Market) error
}

// WatchlistUsecase はユーザーのウォッチリスト操作を提供します。
type WatchlistUsecase struct {
	repo Repository
}

// NewWatchlistUsecase はWatchlistUsecaseを生成します。
func NewWatchlistUsecase(repo Repository) *WatchlistUsecase {
	return &WatchlistUsecase{repo: repo}
}

// List は市場のウォッチリストを返します。ポートフォリオ未作成なら空です。
func (u *WatchlistUsecase) List(ctx context.Context, userID uint, market quotes.Market) ([]quotes.TrackedSymbol, error) {
	pid, err := u.repo.FindPortfolioID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return []quotes.TrackedSymbol{}, nil
	}
	if err != nil {
		return nil, err
	}
	return u.repo.ListHoldings(ctx, pid, market)
}

// Add は銘柄をウォッチリストに追加します。ポートフォリオがなければ先に作成します。
func (u *WatchlistUsecase) Add(ctx context.Context, userID uint, market quotes.Market, entry quotes.TrackedSymbol) error {
	entry, err := normalize(entry)
	if err != nil {
		return err
	}
	pid, err := u.ensurePortfolio(ctx, userID)
	if err != nil {
		return err
	}
	return u.repo.AddHolding(ctx, pid, market, entry)
}

// Remove は銘柄をウォッチリストから削除します。
func (u *WatchlistUsecase) Remove(ctx context.Context, userID uint, market quotes.Market, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	pid, err := u.repo.FindPortfolioID(ctx, userID)
	if err != nil {
		return err
	}
	return u.repo.RemoveHolding(ctx, pid, market, code)
}

// Reset は市場のウォッチリストを空にします。ポートフォリオ未作成なら何もしません。
func (u *WatchlistUsecase) Reset(ctx context.Context, userID uint, market quotes.Market) error {
	pid, err := u.repo.FindPortfolioID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return u.repo.ClearHoldings(ctx, pid, market)
}

// Migrate は匿名時のKR・USリストをユーザーのウォッチリストへ取り込みます。
// 登録済みの銘柄はスキップするため、何度呼んでも結果は同じです。追加件数を返します。
func (u *WatchlistUsecase) Migrate(ctx context.Context, userID uint, kr, us []quotes.TrackedSymbol) (int, error) {
	if len(kr) == 0 && len(us) == 0 {
		return 0, nil
	}
	pid, err := u.ensurePortfolio(ctx, userID)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, batch := range []struct {
		market  quotes.Market
		entries []quotes.TrackedSymbol
	}{{quotes.MarketKR, kr}, {quotes.MarketUS, us}} {
		existing, err := u.repo.ListHoldings(ctx, pid, batch.market)
		if err != nil {
			return added, err
		}
		seen := make(map[string]struct{}, len(existing))
		for _, e := range existing {
			seen[e.Code] = struct{}{}
		}

		for _, e := range batch.entries {
			e, err := normalize(e)
			if err != nil {
				continue
			}
			if _, ok := seen[e.Code]; ok {
				continue
			}
			err = u.repo.AddHolding(ctx, pid, batch.market, e)
			if errors.Is(err, ErrAlreadyExists) {
				seen[e.Code] = struct{}{}
				continue
			}
			if err != nil {
				return added, fmt.Errorf("migrate %s %s: %w", batch.market, e.Code, err)
			}
			seen[e.Code] = struct{}{}
			added++
		}
	}

	slog.Info("watchlist migrated", "user_id", userID, "added", added)
	return added, nil
}

// ensurePortfolio はポートフォリオIDを返し、なければ作成します。
// 同時作成で一意制約に当たった場合は作成済みのものを読み直します。
func (u *WatchlistUsecase) ensurePortfolio(ctx context.Context, userID uint) (uint, error) {
	pid, err := u.repo.FindPortfolioID(ctx, userID)
	if err == nil {
		return pid, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	pid, err = u.repo.CreatePortfolio(ctx, userID)
	if errors.Is(err, ErrAlreadyExists) {
		return u.repo.FindPortfolioID(ctx, userID)
	}
	return pid, err
}

func normalize(e quotes.TrackedSymbol) (quotes.TrackedSymbol, error) {
	e.Code = strings.TrimSpace(e.Code)
	if e.Code == "" {
		return e, ErrEmptyCode
	}
	if strings.TrimSpace(e.Name) == "" {
		e.Name = e.Code
	}
	return e, nil
}
