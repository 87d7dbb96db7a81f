package datagokr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/usecase"
	"stock_dashboard/internal/platform/externalapi/datagokr/dto"
)

const (
	// successCode は getStockPriceInfo の正常終了コードです。
	successCode = "00"

	historyRows   = 1000
	searchRows    = 100
	lookbackDays  = 7 // 直近の取引日を必ず含めるための検索期間
	listRowFactor = 5 // 日付をまたいだ重複を除いても n 件残るように多めに取得する

	dateLayout = "20060102"
)

// ErrResultCode はAPIが成功以外の resultCode を返したことを示します。
var ErrResultCode = errors.New("datagokr: unsuccessful result code")

// Client は data.go.kr の株価情報APIから韓国株の日次データを取得します。
// 失敗時はログを出力して空のスライスを返します。
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// ClientがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
// APIキーが未設定の場合、すべての呼び出しは空の結果を返します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.APIKey == "" {
		slog.Warn("KOREA_STOCK_API_KEY is not set; Korean market data is disabled")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{cfg: cfg, client: client, now: time.Now}
}

// DailySeries は銘柄コードの直近 days 日分の日次データを新しい順で返します。
func (c *Client) DailySeries(ctx context.Context, code string, days int) []entity.QuoteRecord {
	if code == "" || c.cfg.APIKey == "" {
		return nil
	}
	end := c.now().UTC()
	begin := end.AddDate(0, 0, -days)

	q := url.Values{}
	q.Set("numOfRows", strconv.Itoa(historyRows))
	q.Set("likeSrtnCd", code)
	q.Set("beginBasDt", begin.Format(dateLayout))
	q.Set("endBasDt", end.Format(dateLayout))

	items, err := c.fetch(ctx, q)
	if err != nil {
		slog.Warn("failed to fetch Korean stock history", "code", code, "days", days, "error", err)
		return nil
	}

	out := make([]entity.QuoteRecord, 0, len(items))
	for _, it := range items {
		out = append(out, toRecord(it))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// Search は銘柄名の部分一致で検索し、銘柄ごとに最新の1件を返します。
func (c *Client) Search(ctx context.Context, query string) []entity.QuoteRecord {
	if query == "" || c.cfg.APIKey == "" {
		return nil
	}
	q := c.recentWindow()
	q.Set("numOfRows", strconv.Itoa(searchRows))
	q.Set("likeItmsNm", query)

	items, err := c.fetch(ctx, q)
	if err != nil {
		slog.Warn("failed to search Korean stocks", "query", query, "error", err)
		return nil
	}
	return latestByCode(items)
}

// List は直近の取引日に上場している銘柄を最大 n 件返します。
func (c *Client) List(ctx context.Context, n int) []entity.QuoteRecord {
	if n <= 0 || c.cfg.APIKey == "" {
		return nil
	}
	q := c.recentWindow()
	q.Set("numOfRows", strconv.Itoa(n*listRowFactor))

	items, err := c.fetch(ctx, q)
	if err != nil {
		slog.Warn("failed to fetch Korean stock list", "limit", n, "error", err)
		return nil
	}
	out := latestByCode(items)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (c *Client) recentWindow() url.Values {
	end := c.now().UTC()
	q := url.Values{}
	q.Set("beginBasDt", end.AddDate(0, 0, -lookbackDays).Format(dateLayout))
	q.Set("endBasDt", end.Format(dateLayout))
	return q
}

// fetch は getStockPriceInfo を呼び出し、item を常にスライスとして返します。
func (c *Client) fetch(ctx context.Context, q url.Values) ([]dto.PriceItem, error) {
	q.Set("resultType", "json")
	// serviceKey は発行時点でURLエンコード済みのため、二重エンコードしない
	u := fmt.Sprintf("%s/getStockPriceInfo?serviceKey=%s&%s", c.cfg.BaseURL, c.cfg.APIKey, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("datagokr http %d", res.StatusCode)
	}

	var body dto.StockPriceInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if code := body.Response.Header.ResultCode; code != successCode {
		return nil, fmt.Errorf("%w: %s %s", ErrResultCode, code, body.Response.Header.ResultMsg)
	}
	return decodeItems(body.Response.Body.Items)
}

// decodeItems は items.item を0件以上のスライスに正規化します。
// item はオブジェクト、配列、欠落、items自体が空文字列のいずれもあり得ます。
func decodeItems(raw json.RawMessage) ([]dto.PriceItem, error) {
	if isEmptyJSON(raw) {
		return nil, nil
	}
	var items dto.Items
	if err := json.Unmarshal(raw, &items); err != nil {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("decode items: %w", err)
	}

	item := bytes.TrimSpace(items.Item)
	if isEmptyJSON(item) {
		return nil, nil
	}
	if item[0] == '[' {
		var list []dto.PriceItem
		if err := json.Unmarshal(item, &list); err != nil {
			return nil, fmt.Errorf("decode item list: %w", err)
		}
		return list, nil
	}
	var one dto.PriceItem
	if err := json.Unmarshal(item, &one); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return []dto.PriceItem{one}, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null")) || bytes.Equal(t, []byte(`""`))
}

// latestByCode は短縮コードごとに日付が最大の行だけを残します。
// 出力順はコードが最初に現れた順です。
func latestByCode(items []dto.PriceItem) []entity.QuoteRecord {
	idx := make(map[string]int, len(items))
	out := make([]entity.QuoteRecord, 0, len(items))
	for _, it := range items {
		i, ok := idx[it.SrtnCd]
		if !ok {
			idx[it.SrtnCd] = len(out)
			out = append(out, toRecord(it))
			continue
		}
		if it.BasDt > out[i].Date {
			out[i] = toRecord(it)
		}
	}
	return out
}

func toRecord(it dto.PriceItem) entity.QuoteRecord {
	name := it.ItmsNm
	if name == "" {
		name = it.SrtnCd
	}
	return entity.QuoteRecord{
		Date:       it.BasDt,
		Code:       it.SrtnCd,
		Name:       name,
		Market:     entity.MarketKR,
		Close:      it.Clpr,
		Change:     it.Vs,
		ChangeRate: it.FltRt,
		Open:       it.Mkp,
		High:       it.Hipr,
		Low:        it.Lopr,
		Volume:     it.Trqu,
	}
}
