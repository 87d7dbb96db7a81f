// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	quotesusecase "stock_dashboard/internal/feature/quotes/usecase"
	symbolsusecase "stock_dashboard/internal/feature/symbols/usecase"
	"stock_dashboard/internal/platform/cache"
	"stock_dashboard/internal/platform/externalapi/alphavantage"
	"stock_dashboard/internal/platform/externalapi/datagokr"
	infrahttp "stock_dashboard/internal/platform/http"
)

// Markets はデータ提供元ごとのリポジトリです。Redisがあればキャッシュでラップ済みです。
type Markets map[quotes.Market]*cache.CachingMarketRepository

// NewMarkets creates one provider client per market, each wrapped in the Redis cache decorator.
// A nil rdb disables caching; the decorator then calls the provider directly.
func NewMarkets(rdb *redis.Client, ttl time.Duration) Markets {
	krCfg := datagokr.LoadConfig()
	kr := datagokr.NewClient(krCfg, infrahttp.NewHTTPClient(krCfg.Timeout))

	usCfg := alphavantage.LoadConfig()
	us := alphavantage.NewClient(usCfg, infrahttp.NewHTTPClient(usCfg.Timeout))

	return Markets{
		quotes.MarketKR: cache.NewCachingMarketRepository(rdb, ttl, kr, "quotes:"+string(quotes.MarketKR)),
		quotes.MarketUS: cache.NewCachingMarketRepository(rdb, ttl, us, "quotes:"+string(quotes.MarketUS)),
	}
}

// QuoteRepositories returns the markets as quotes usecase dependencies.
func (m Markets) QuoteRepositories() map[quotes.Market]quotesusecase.MarketRepository {
	out := make(map[quotes.Market]quotesusecase.MarketRepository, len(m))
	for market, repo := range m {
		out[market] = repo
	}
	return out
}

// SymbolSources returns the markets as symbols usecase dependencies.
func (m Markets) SymbolSources() map[quotes.Market]symbolsusecase.SymbolSource {
	out := make(map[quotes.Market]symbolsusecase.SymbolSource, len(m))
	for market, repo := range m {
		out[market] = repo
	}
	return out
}
