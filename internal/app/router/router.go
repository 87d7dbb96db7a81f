// Package router はHTTPルーティングを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "stock_dashboard/internal/feature/auth/transport/handler"
	dashboardhandler "stock_dashboard/internal/feature/dashboard/transport/handler"
	quoteshandler "stock_dashboard/internal/feature/quotes/transport/handler"
	symbolshandler "stock_dashboard/internal/feature/symbols/transport/handler"
	watchlisthandler "stock_dashboard/internal/feature/watchlist/transport/handler"
	healthhandler "stock_dashboard/internal/platform/http/handler"
	jwtmw "stock_dashboard/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラーの一覧です。
type Handlers struct {
	Health    *healthhandler.HealthHandler
	Auth      *authhandler.AuthHandler
	Quotes    *quoteshandler.QuotesHandler
	Symbols   *symbolshandler.SymbolHandler
	Watchlist *watchlisthandler.WatchlistHandler
	Dashboard *dashboardhandler.DashboardHandler
}

// Options はルーター全体の設定です。
type Options struct {
	JWTSecret          string
	CORSAllowedOrigins []string
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.Default()

	// ダッシュボードのフロントエンドはclient_id Cookieを送るため資格情報付きで許可する
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.GET("/readyz", h.Health.Ready)
	// 新規ユーザー登録
	r.POST("/signup", h.Auth.Signup)
	// ログイン（JWT とリフレッシュトークンを発行）
	r.POST("/login", h.Auth.Login)
	r.POST("/refresh", h.Auth.Refresh)
	r.POST("/logout", h.Auth.Logout)

	// 株価系列と銘柄検索
	r.GET("/quotes/:market/:code", h.Quotes.GetSeries)
	r.POST("/quotes/:market/chart", h.Quotes.Chart)
	r.POST("/quotes/:market/table", h.Quotes.Table)
	r.GET("/symbols", h.Symbols.List)
	r.GET("/symbols/search", h.Symbols.Search)

	// ダッシュボード: トークンがあればログインユーザーのウォッチリストを使う
	dashboard := r.Group("/dashboard")
	dashboard.Use(jwtmw.OptionalAuth(opts.JWTSecret))
	{
		dashboard.GET("", h.Dashboard.Get)
		dashboard.PUT("/settings", h.Dashboard.UpdateSettings)
		dashboard.POST("/symbols", h.Dashboard.AddSymbol)
		dashboard.DELETE("/symbols/:code", h.Dashboard.RemoveSymbol)
		dashboard.DELETE("/symbols", h.Dashboard.Reset)
		dashboard.POST("/visit", h.Dashboard.Visit)
		dashboard.POST("/migrate", h.Dashboard.Migrate)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/watchlist")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("", h.Watchlist.List)
		auth.POST("", h.Watchlist.Add)
		auth.DELETE("/:code", h.Watchlist.Remove)
		auth.DELETE("", h.Watchlist.Reset)
		auth.POST("/migrate", h.Watchlist.Migrate)
	}

	return r
}
