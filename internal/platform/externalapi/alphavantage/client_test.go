package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client())
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestOutputSizeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days int
		want string
	}{
		{7, "compact"},
		{30, "compact"},
		{100, "compact"},
		{101, "full"},
		{365, "full"},
		{400, "full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputSizeFor(tt.days), "days=%d", tt.days)
	}
}

func TestClient_DailySeries(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "compact", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))

		_, _ = w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "AAPL"},
			"Time Series (Daily)": {
				"2024-03-15": {"1. open": "171.17", "2. high": "172.62", "3. low": "170.285", "4. close": "172.62", "5. volume": "121752699"},
				"2024-03-14": {"1. open": "172.91", "2. high": "174.3078", "3. low": "172.05", "4. close": "173.00", "5. volume": "72913507"},
				"2024-03-13": {"1. open": "172.77", "2. high": "173.185", "3. low": "170.76", "4. close": "171.13", "5. volume": "51948951"},
				"2024-01-02": {"1. open": "187.15", "2. high": "188.44", "3. low": "183.885", "4. close": "185.64", "5. volume": "82488674"}
			}
		}`))
	})

	got := c.DailySeries(context.Background(), "AAPL", 7)

	require.Len(t, got, 3, "bars outside the window are dropped")
	assert.Equal(t, "20240315", got[0].Date)
	assert.Equal(t, "20240314", got[1].Date)
	assert.Equal(t, "20240313", got[2].Date)

	assert.Equal(t, "AAPL", got[0].Name, "name falls back to the symbol")
	assert.EqualValues(t, "US", got[0].Market)
	assert.Equal(t, "172.62", got[0].Close)
	assert.Equal(t, "170.29", got[0].Low)
	assert.Equal(t, "174.31", got[1].High)
	assert.Equal(t, "121752699", got[0].Volume)

	assert.Equal(t, "-0.38", got[0].Change)
	assert.Equal(t, "-0.22", got[0].ChangeRate)
	assert.Equal(t, "1.87", got[1].Change)
	assert.Equal(t, "1.09", got[1].ChangeRate)
	assert.Equal(t, "0", got[2].Change, "oldest bar has no previous close")
	assert.Equal(t, "0", got[2].ChangeRate)
}

func TestClient_DailySeries_FullOutputSize(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {}}`))
	})

	assert.Empty(t, c.DailySeries(context.Background(), "AAPL", 400))
}

func TestClient_DailySeries_Notices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"note", http.StatusOK, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`},
		{"information", http.StatusOK, `{"Information": "rate limit"}`},
		{"error message", http.StatusOK, `{"Error Message": "Invalid API call."}`},
		{"http error", http.StatusServiceUnavailable, ``},
		{"invalid json", http.StatusOK, `{invalid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})

			assert.Empty(t, c.DailySeries(context.Background(), "AAPL", 30))
		})
	}
}

func TestClient_DailySeries_SkipsInvalidClose(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {
			"2024-03-15": {"4. close": "n/a"},
			"2024-03-14": {"4. close": "100"}
		}}`))
	})

	got := c.DailySeries(context.Background(), "AAPL", 30)

	require.Len(t, got, 1)
	assert.Equal(t, "100.00", got[0].Close)
}

func TestClient_DailySeries_ZeroPreviousClose(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {
			"2024-03-15": {"4. close": "5"},
			"2024-03-14": {"4. close": "0"}
		}}`))
	})

	got := c.DailySeries(context.Background(), "PENNY", 30)

	require.Len(t, got, 2)
	assert.Equal(t, "5.00", got[0].Change)
	assert.Equal(t, "NaN", got[0].ChangeRate)
	assert.Equal(t, "0", got[1].ChangeRate)
}

func TestClient_Search_FiltersRegion(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SYMBOL_SEARCH", r.URL.Query().Get("function"))
		assert.Equal(t, "apple", r.URL.Query().Get("keywords"))

		_, _ = w.Write([]byte(`{"bestMatches": [
			{"1. symbol": "AAPL", "2. name": "Apple Inc", "4. region": "United States"},
			{"1. symbol": "APC.DEX", "2. name": "Apple Inc", "4. region": "XETRA"}
		]}`))
	})

	got := c.Search(context.Background(), "apple")

	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Code)
	assert.Equal(t, "Apple Inc", got[0].Name)
	assert.Equal(t, "20240315", got[0].Date)
	assert.Equal(t, "0", got[0].Close)
}

func TestClient_MissingAPIKey(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, server.Client())

	assert.Empty(t, c.DailySeries(context.Background(), "AAPL", 30))
	assert.Empty(t, c.Search(context.Background(), "apple"))
	assert.Empty(t, c.List(context.Background(), 20))
	assert.False(t, called)
}

func TestClient_DailySeries_ContextCancellation(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Empty(t, c.DailySeries(ctx, "AAPL", 30))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "k")
	t.Setenv("ALPHA_VANTAGE_BASE_URL", "")
	t.Setenv("ALPHA_VANTAGE_RATE_PER_MINUTE", "5")

	cfg := LoadConfig()

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 5, cfg.RatePerMinute)
}
