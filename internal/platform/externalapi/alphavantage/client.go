package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/usecase"
	"stock_dashboard/internal/platform/externalapi/alphavantage/dto"
	"stock_dashboard/internal/shared/ratelimiter"
)

const (
	// compactPoints is the number of daily points returned by outputsize=compact.
	compactPoints = 100
	// windowBuffer widens the requested window so weekends at the edge do not drop days.
	windowBuffer = 5

	usRegion   = "United States"
	isoLayout  = "2006-01-02"
	dateLayout = "20060102"
)

// ErrNotice is returned when the response carries a Note, Information or
// Error Message key instead of data.
var ErrNotice = errors.New("alphavantage: notice")

// OutputSizeFor returns the outputsize parameter needed to cover days of history.
func OutputSizeFor(days int) string {
	if days > compactPoints {
		return "full"
	}
	return "compact"
}

// Client fetches U.S. daily series from Alpha Vantage.
// Every failure is logged and turned into an empty result.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	now     func() time.Time
}

// Compile-time check that Client implements MarketRepository.
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient creates a Client. A missing API key disables the client.
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.APIKey == "" {
		slog.Warn("ALPHA_VANTAGE_API_KEY is not set; U.S. market data is disabled")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	c := &Client{cfg: cfg, client: client, now: time.Now}
	if rl := ratelimiter.NewPerMinute("alphavantage", cfg.RatePerMinute); rl != nil {
		c.limiter = rl
	}
	return c
}

// DailySeries returns the last days of daily bars for symbol, newest first.
// Change and ChangeRate are derived from consecutive closes because the
// provider does not report them.
func (c *Client) DailySeries(ctx context.Context, code string, days int) []entity.QuoteRecord {
	if code == "" || c.cfg.APIKey == "" {
		return nil
	}

	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", code)
	q.Set("outputsize", OutputSizeFor(days))

	var body dto.TimeSeriesDailyResponse
	if err := c.get(ctx, q, &body); err != nil {
		slog.Warn("failed to fetch U.S. stock history", "symbol", code, "days", days, "error", err)
		return nil
	}

	end := c.now().UTC()
	from := end.AddDate(0, 0, -(days + windowBuffer)).Format(isoLayout)
	to := end.Format(isoLayout)

	out := make([]entity.QuoteRecord, 0, len(body.Series))
	closes := make(map[string]decimal.Decimal, len(body.Series))
	for date, bar := range body.Series {
		if date < from || date > to {
			continue
		}
		cl, err := decimal.NewFromString(strings.TrimSpace(bar.Close))
		if err != nil {
			slog.Warn("skipping bar with invalid close", "symbol", code, "date", date, "close", bar.Close)
			continue
		}
		d := strings.ReplaceAll(date, "-", "")
		closes[d] = cl
		out = append(out, entity.QuoteRecord{
			Date:       d,
			Code:       code,
			Name:       code,
			Market:     entity.MarketUS,
			Close:      cl.StringFixed(2),
			Change:     "0",
			ChangeRate: "0",
			Open:       fixed2(bar.Open),
			High:       fixed2(bar.High),
			Low:        fixed2(bar.Low),
			Volume:     bar.Volume,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	hundred := decimal.NewFromInt(100)
	for i := 1; i < len(out); i++ {
		prev := closes[out[i-1].Date].Round(2)
		curr := closes[out[i].Date].Round(2)
		change := curr.Sub(prev)
		out[i].Change = change.StringFixed(2)
		// A zero previous close leaves the rate undefined.
		if prev.IsZero() {
			out[i].ChangeRate = "NaN"
		} else {
			out[i].ChangeRate = change.Div(prev).Mul(hundred).StringFixed(2)
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Search looks up U.S. listed symbols matching query. Matches carry zero
// prices and today's date.
func (c *Client) Search(ctx context.Context, query string) []entity.QuoteRecord {
	if query == "" || c.cfg.APIKey == "" {
		return nil
	}

	q := url.Values{}
	q.Set("function", "SYMBOL_SEARCH")
	q.Set("keywords", query)

	var body dto.SymbolSearchResponse
	if err := c.get(ctx, q, &body); err != nil {
		slog.Warn("failed to search U.S. stocks", "query", query, "error", err)
		return nil
	}

	today := c.now().UTC().Format(dateLayout)
	out := make([]entity.QuoteRecord, 0, len(body.BestMatches))
	for _, m := range body.BestMatches {
		if m.Region != usRegion {
			continue
		}
		name := m.Name
		if name == "" {
			name = m.Symbol
		}
		out = append(out, entity.QuoteRecord{
			Date:       today,
			Code:       m.Symbol,
			Name:       name,
			Market:     entity.MarketUS,
			Close:      "0",
			Change:     "0",
			ChangeRate: "0",
			Open:       "0",
			High:       "0",
			Low:        "0",
			Volume:     "0",
		})
	}
	return out
}

// List is not offered by Alpha Vantage and always returns nil.
func (c *Client) List(ctx context.Context, n int) []entity.QuoteRecord {
	return nil
}

// get performs GET {base}/query and decodes the body into out.
func (c *Client) get(ctx context.Context, q url.Values, out interface{ Message() string }) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	q.Set("apikey", c.cfg.APIKey)
	u := fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("alphavantage http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if msg := out.Message(); msg != "" {
		return fmt.Errorf("%w: %s", ErrNotice, msg)
	}
	return nil
}

// fixed2 normalizes a provider price to two decimals; unparseable values pass through.
func fixed2(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return d.StringFixed(2)
}
