// Package usecase はダッシュボードの状態管理（市場・期間・表示モード・監視銘柄・取得済み系列）を実装します。
// Controllerはリクエストごとに生成し、リクエストをまたぐ状態はStateStoreに保存します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"stock_dashboard/internal/feature/dashboard/domain/entity"
	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/domain/series"
)

// クライアント状態のキー
const (
	keyViewMode   = "viewMode"
	keyTimeRange  = "timeRange"
	keyMarket     = "marketType"
	keyUsageCount = "usageCount"
)

// trackedKey は市場ごとの監視銘柄リストのキーを返します。
func trackedKey(m quotes.Market) string {
	return "selectedStocks:" + string(m)
}

// defaultSymbol は初回訪問時に表示する銘柄です。
var defaultSymbol = quotes.TrackedSymbol{Code: "005930", Name: "삼성전자"}

var (
	// ErrSignInRequired はログインが必要な操作を未ログインで呼んだ場合に返されます。
	ErrSignInRequired = errors.New("sign in required")
	// ErrEmptyCode は銘柄コードが空の場合に返されます。
	ErrEmptyCode = errors.New("code is required")
)

// StateStore はクライアント単位の状態保存先です。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StateStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// QuoteFetcher は1銘柄分の重複除去済み日次系列を返します。
type QuoteFetcher interface {
	Series(ctx context.Context, market quotes.Market, code string, days int) ([]quotes.QuoteRecord, error)
}

// Persister はログインユーザーのウォッチリストです。
type Persister interface {
	List(ctx context.Context, userID uint, market quotes.Market) ([]quotes.TrackedSymbol, error)
	Add(ctx context.Context, userID uint, market quotes.Market, entry quotes.TrackedSymbol) error
	Remove(ctx context.Context, userID uint, market quotes.Market, code string) error
	Reset(ctx context.Context, userID uint, market quotes.Market) error
	Migrate(ctx context.Context, userID uint, kr, us []quotes.TrackedSymbol) (int, error)
}

// View はダッシュボードの描画結果です。
type View struct {
	Market         quotes.Market          `json:"market"`
	TimeRange      entity.TimeRange       `json:"timeRange"`
	ViewMode       entity.ViewMode        `json:"viewMode"`
	Tracked        []quotes.TrackedSymbol `json:"tracked"`
	Chart          []series.ChartRow      `json:"chart,omitempty"`
	Table          *series.TablePage      `json:"table,omitempty"`
	Empty          bool                   `json:"empty"`
	Message        string                 `json:"message,omitempty"`
	Authenticated  bool                   `json:"authenticated"`
	UsageCount     int                    `json:"usageCount"`
	SignInRequired bool                   `json:"signInRequired"`
}

// Controller はダッシュボード1クライアント分の状態を保持します。
type Controller struct {
	store  StateStore
	quotes QuoteFetcher

	persister Persister
	userID    uint

	mu         sync.Mutex
	market     quotes.Market
	timeRange  entity.TimeRange
	viewMode   entity.ViewMode
	tracked    []quotes.TrackedSymbol
	cache      map[string][]quotes.QuoteRecord
	generation uint64
	usage      int
}

// NewController は未ログイン状態のControllerを生成します。
func NewController(store StateStore, fetcher QuoteFetcher) *Controller {
	return &Controller{
		store:     store,
		quotes:    fetcher,
		market:    quotes.MarketKR,
		timeRange: entity.RangeYear,
		viewMode:  entity.ViewChart,
		tracked:   []quotes.TrackedSymbol{},
		cache:     map[string][]quotes.QuoteRecord{},
	}
}

// AttachUser はログインユーザーのウォッチリストを監視銘柄の保存先にします。
// Loadより前に呼び出してください。
func (c *Controller) AttachUser(userID uint, p Persister) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.persister = p
}

// Authenticated はログインユーザーが紐づいているかを返します。
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persister != nil
}

// Load は保存済みの設定と監視銘柄を読み込みます。
// 読み込みに失敗した値は既定値のまま扱います。
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		market    string
		timeRange string
		viewMode  string
		usage     int
	)
	if c.get(ctx, keyMarket, &market) {
		if m, err := quotes.ParseMarket(market); err == nil {
			c.market = m
		}
	}
	if c.get(ctx, keyTimeRange, &timeRange) {
		if r, err := entity.ParseTimeRange(timeRange); err == nil {
			c.timeRange = r
		}
	}
	if c.get(ctx, keyViewMode, &viewMode) {
		if v, err := entity.ParseViewMode(viewMode); err == nil {
			c.viewMode = v
		}
	}
	if c.get(ctx, keyUsageCount, &usage) {
		c.usage = usage
	}

	// 初回訪問（KRのリストが一度も保存されていない）の場合はサンプル銘柄を入れる
	var kr []quotes.TrackedSymbol
	if !c.get(ctx, trackedKey(quotes.MarketKR), &kr) {
		if err := c.store.Set(ctx, trackedKey(quotes.MarketKR), []quotes.TrackedSymbol{defaultSymbol}); err != nil {
			slog.Warn("failed to seed default symbol", "error", err)
		}
	}
	c.tracked = c.loadTracked(ctx, c.market)
}

// loadTracked は市場の監視銘柄を返します。ログイン時はウォッチリストを優先し、失敗時はローカルのリストを使います。
func (c *Controller) loadTracked(ctx context.Context, market quotes.Market) []quotes.TrackedSymbol {
	if c.persister != nil {
		list, err := c.persister.List(ctx, c.userID, market)
		if err == nil {
			return list
		}
		slog.Warn("failed to load watchlist; using local list", "userID", c.userID, "market", market, "error", err)
	}
	var local []quotes.TrackedSymbol
	c.get(ctx, trackedKey(market), &local)
	if local == nil {
		local = []quotes.TrackedSymbol{}
	}
	return local
}

// SetMarket は市場を切り替え、その市場の監視銘柄を読み込みます。
func (c *Controller) SetMarket(ctx context.Context, m quotes.Market) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Set(ctx, keyMarket, m); err != nil {
		return err
	}
	c.market = m
	c.tracked = c.loadTracked(ctx, m)
	c.invalidate()
	return nil
}

// SetTimeRange は取得期間を変更します。
func (c *Controller) SetTimeRange(ctx context.Context, r entity.TimeRange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Set(ctx, keyTimeRange, r); err != nil {
		return err
	}
	c.timeRange = r
	c.invalidate()
	return nil
}

// SetViewMode は表示モードを変更します。取得済みの系列はそのまま使います。
func (c *Controller) SetViewMode(ctx context.Context, v entity.ViewMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Set(ctx, keyViewMode, v); err != nil {
		return err
	}
	c.viewMode = v
	return nil
}

// AddSymbol は銘柄を監視対象に追加します。既に追加済みなら何もしません。
// ローカルの状態を先に更新し、ウォッチリストへの保存失敗はログのみです。
func (c *Controller) AddSymbol(ctx context.Context, sym quotes.TrackedSymbol) error {
	sym.Code = strings.TrimSpace(sym.Code)
	sym.Name = strings.TrimSpace(sym.Name)
	if sym.Code == "" {
		return ErrEmptyCode
	}
	if sym.Name == "" {
		sym.Name = sym.Code
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.ContainsFunc(c.tracked, func(s quotes.TrackedSymbol) bool { return s.Code == sym.Code }) {
		return nil
	}
	c.tracked = append(c.tracked, sym)
	if err := c.saveTracked(ctx); err != nil {
		return err
	}
	c.invalidate()

	if c.persister != nil {
		if err := c.persister.Add(ctx, c.userID, c.market, sym); err != nil {
			slog.Warn("failed to persist added symbol", "userID", c.userID, "market", c.market, "code", sym.Code, "error", err)
		}
	}
	return nil
}

// RemoveSymbol は銘柄を監視対象から外します。
func (c *Controller) RemoveSymbol(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = slices.DeleteFunc(c.tracked, func(s quotes.TrackedSymbol) bool { return s.Code == code })
	if err := c.saveTracked(ctx); err != nil {
		return err
	}
	c.invalidate()

	if c.persister != nil {
		if err := c.persister.Remove(ctx, c.userID, c.market, code); err != nil {
			slog.Warn("failed to persist removed symbol", "userID", c.userID, "market", c.market, "code", code, "error", err)
		}
	}
	return nil
}

// Reset は現在の市場の監視銘柄をすべて外します。
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = []quotes.TrackedSymbol{}
	if err := c.saveTracked(ctx); err != nil {
		return err
	}
	c.invalidate()

	if c.persister != nil {
		if err := c.persister.Reset(ctx, c.userID, c.market); err != nil {
			slog.Warn("failed to persist reset", "userID", c.userID, "market", c.market, "error", err)
		}
	}
	return nil
}

// Refresh は監視銘柄ごとに系列を並行取得し、取得できたものから順にキャッシュへ書き込みます。
// 取得中に状態が変わった場合、古い取得結果は破棄されます。
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.invalidate()
	gen := c.generation
	market := c.market
	days := c.timeRange.Days()
	tracked := slices.Clone(c.tracked)
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, sym := range tracked {
		g.Go(func() error {
			recs, err := c.quotes.Series(gctx, market, sym.Code, days)
			if err != nil {
				slog.Warn("failed to fetch series", "market", market, "code", sym.Code, "error", err)
				return nil
			}
			if len(recs) == 0 {
				return nil
			}
			c.put(gen, sym.Code, recs)
			return nil
		})
	}
	return g.Wait()
}

// put は取得結果をキャッシュに書き込みます。世代が変わっていれば破棄します。
func (c *Controller) put(gen uint64, code string, recs []quotes.QuoteRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		slog.Debug("discarding stale series", "code", code)
		return
	}
	if !slices.ContainsFunc(c.tracked, func(s quotes.TrackedSymbol) bool { return s.Code == code }) {
		return
	}
	c.cache[code] = recs
}

// View は現在の表示モードでキャッシュを描画します。filterとpageはテーブル表示でのみ使います。
func (c *Controller) View(filter string, page int) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Market:         c.market,
		TimeRange:      c.timeRange,
		ViewMode:       c.viewMode,
		Tracked:        slices.Clone(c.tracked),
		Authenticated:  c.persister != nil,
		UsageCount:     c.usage,
		SignInRequired: c.signInRequired(),
	}

	switch c.viewMode {
	case entity.ViewTable:
		rows := series.FlattenTable(c.market, c.tracked, c.cache, strings.TrimSpace(filter))
		p := series.Paginate(rows, page, series.DefaultPerPage)
		v.Table = &p
		v.Empty = p.TotalRows == 0
	default:
		v.Chart = series.MergeChart(c.tracked, c.cache)
		v.Empty = len(v.Chart) == 0
	}
	if v.Empty {
		v.Message = entity.EmptyMessage
	}
	return v
}

// RecordVisit は未ログイン時の訪問回数を数え、現在の回数とサインインが必要かを返します。
func (c *Controller) RecordVisit(ctx context.Context) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.persister != nil {
		return c.usage, false, nil
	}
	next := c.usage + 1
	if err := c.store.Set(ctx, keyUsageCount, next); err != nil {
		return c.usage, c.signInRequired(), err
	}
	c.usage = next
	return c.usage, c.signInRequired(), nil
}

// MigrateToUser は未ログイン時のKR・USリストをログインユーザーのウォッチリストへコピーします。
// 既に登録済みの銘柄は追加されません。
func (c *Controller) MigrateToUser(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.persister == nil {
		return 0, ErrSignInRequired
	}

	var kr, us []quotes.TrackedSymbol
	c.get(ctx, trackedKey(quotes.MarketKR), &kr)
	c.get(ctx, trackedKey(quotes.MarketUS), &us)

	added, err := c.persister.Migrate(ctx, c.userID, kr, us)
	if err != nil {
		return 0, err
	}
	slog.Info("migrated local watchlist", "userID", c.userID, "added", added)
	if err := c.store.Delete(ctx, keyUsageCount); err != nil {
		slog.Warn("failed to clear usage count", "error", err)
	}
	c.usage = 0

	c.tracked = c.loadTracked(ctx, c.market)
	c.invalidate()
	return added, nil
}

func (c *Controller) signInRequired() bool {
	return c.persister == nil && c.usage > entity.AnonymousQuota
}

// invalidate はキャッシュを破棄し世代を進めます。呼び出し側でロックを保持してください。
func (c *Controller) invalidate() {
	c.generation++
	c.cache = map[string][]quotes.QuoteRecord{}
}

// saveTracked は未ログイン時のみ現在の市場のリストを保存します。呼び出し側でロックを保持してください。
func (c *Controller) saveTracked(ctx context.Context) error {
	if c.persister != nil {
		return nil
	}
	return c.store.Set(ctx, trackedKey(c.market), c.tracked)
}

// get はstoreから値を読み込みます。存在しない場合や読み込み失敗時はfalseです。
func (c *Controller) get(ctx context.Context, key string, dest any) bool {
	ok, err := c.store.Get(ctx, key, dest)
	if err != nil {
		slog.Warn("failed to read client state", "key", key, "error", err)
		return false
	}
	return ok
}
