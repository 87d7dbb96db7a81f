package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"stock_dashboard/internal/feature/quotes/domain/entity"
)

// mockMarketRepository はテスト用のMarketRepositoryモック実装です。
type mockMarketRepository struct {
	dailySeriesFn func(ctx context.Context, code string, days int) []entity.QuoteRecord
	searchFn      func(ctx context.Context, query string) []entity.QuoteRecord
}

// DailySeries はモックのDailySeries関数を呼び出します。
func (m *mockMarketRepository) DailySeries(ctx context.Context, code string, days int) []entity.QuoteRecord {
	if m.dailySeriesFn != nil {
		return m.dailySeriesFn(ctx, code, days)
	}
	return nil
}

// Search はモックのSearch関数を呼び出します。
func (m *mockMarketRepository) Search(ctx context.Context, query string) []entity.QuoteRecord {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil
}

// mockListingRepository はListも提供するプロバイダーのモックです。
type mockListingRepository struct {
	mockMarketRepository
	listFn func(ctx context.Context, n int) []entity.QuoteRecord
}

// List はモックのList関数を呼び出します。
func (m *mockListingRepository) List(ctx context.Context, n int) []entity.QuoteRecord {
	return m.listFn(ctx, n)
}

var sampleSeries = []entity.QuoteRecord{
	{Date: "20240102", Code: "005930", Name: "삼성전자", Market: entity.MarketKR, Close: "71000"},
	{Date: "20240101", Code: "005930", Name: "삼성전자", Market: entity.MarketKR, Close: "70000"},
}

// TestNewCachingMarketRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingMarketRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", DefaultTTL, "quotes"},
		{"negative ttl uses default", -time.Minute, "", DefaultTTL, "quotes"},
		{"custom values preserved", 10 * time.Minute, "quotes:KR", 10 * time.Minute, "quotes:KR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingMarketRepository(nil, tt.ttl, &mockMarketRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingMarketRepository_DailySeries_NilRedis はRedisがnilの場合に内部リポジトリを直接呼び出すことを検証します。
func TestCachingMarketRepository_DailySeries_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockMarketRepository{
		dailySeriesFn: func(ctx context.Context, code string, days int) []entity.QuoteRecord {
			return sampleSeries
		},
	}

	repo := NewCachingMarketRepository(nil, time.Minute, inner, "quotes:KR")

	got := repo.DailySeries(context.Background(), "005930", 30)
	if len(got) != len(sampleSeries) {
		t.Errorf("expected %d records, got %d", len(sampleSeries), len(got))
	}
}

// TestCachingMarketRepository_DailySeries_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingMarketRepository_DailySeries_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(sampleSeries)
	mock.ExpectGet("quotes:KR:series:005930:30").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockMarketRepository{
		dailySeriesFn: func(ctx context.Context, code string, days int) []entity.QuoteRecord {
			innerCalled = true
			return nil
		},
	}

	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "quotes:KR")
	got := repo.DailySeries(context.Background(), "005930", 30)

	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(got) != 2 || got[0].Close != "71000" {
		t.Errorf("unexpected records from cache: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_DailySeries_CacheMiss はキャッシュミス時にプロバイダーから取得し保存することを検証します。
func TestCachingMarketRepository_DailySeries_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleSeries)
	mock.ExpectGet("quotes:KR:series:005930:30").RedisNil()
	mock.ExpectSet("quotes:KR:series:005930:30", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockMarketRepository{
		dailySeriesFn: func(ctx context.Context, code string, days int) []entity.QuoteRecord {
			return sampleSeries
		},
	}

	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "quotes:KR")
	got := repo.DailySeries(context.Background(), "005930", 30)

	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_DailySeries_EmptyNotCached は空の結果をキャッシュしないことを検証します。
func TestCachingMarketRepository_DailySeries_EmptyNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	// Set is not expected for an empty result
	mock.ExpectGet("quotes:US:series:AAPL:7").RedisNil()

	repo := NewCachingMarketRepository(rdb, 5*time.Minute, &mockMarketRepository{}, "quotes:US")
	got := repo.DailySeries(context.Background(), "AAPL", 7)

	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_DailySeries_CorruptedCache は破損したキャッシュを削除してプロバイダーにフォールバックすることを検証します。
func TestCachingMarketRepository_DailySeries_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleSeries)
	mock.ExpectGet("quotes:KR:series:005930:30").SetVal("invalid json")
	mock.ExpectDel("quotes:KR:series:005930:30").SetVal(1)
	mock.ExpectSet("quotes:KR:series:005930:30", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockMarketRepository{
		dailySeriesFn: func(ctx context.Context, code string, days int) []entity.QuoteRecord {
			return sampleSeries
		},
	}

	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "quotes:KR")
	got := repo.DailySeries(context.Background(), "005930", 30)

	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_Search_KeyIsCaseInsensitive は検索キーが小文字化・エスケープされることを検証します。
func TestCachingMarketRepository_Search_KeyIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	results := []entity.QuoteRecord{{Code: "AAPL", Name: "Apple Inc", Market: entity.MarketUS}}
	expectedJSON, _ := json.Marshal(results)
	mock.ExpectGet("quotes:US:search:apple_inc").RedisNil()
	mock.ExpectSet("quotes:US:search:apple_inc", expectedJSON, time.Minute).SetVal("OK")

	inner := &mockMarketRepository{
		searchFn: func(ctx context.Context, query string) []entity.QuoteRecord {
			if query != "Apple Inc" {
				t.Errorf("expected original query to reach provider, got %q", query)
			}
			return results
		},
	}

	repo := NewCachingMarketRepository(rdb, time.Minute, inner, "quotes:US")
	got := repo.Search(context.Background(), "Apple Inc")

	if len(got) != 1 {
		t.Errorf("expected 1 result, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_List はListを提供するプロバイダーのみ委譲されることを検証します。
func TestCachingMarketRepository_List(t *testing.T) {
	t.Parallel()

	withoutList := NewCachingMarketRepository(nil, time.Minute, &mockMarketRepository{}, "quotes:US")
	if got := withoutList.List(context.Background(), 20); got != nil {
		t.Errorf("expected nil for provider without List, got %v", got)
	}

	withList := NewCachingMarketRepository(nil, time.Minute, &mockListingRepository{
		listFn: func(ctx context.Context, n int) []entity.QuoteRecord {
			return sampleSeries[:1]
		},
	}, "quotes:KR")
	if got := withList.List(context.Background(), 20); len(got) != 1 {
		t.Errorf("expected 1 record, got %d", len(got))
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"BRK A", "BRK_A"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if result := safe(tt.input); result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
