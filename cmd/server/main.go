package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	authadapters "stock_dashboard/internal/feature/auth/adapters"
	authhandler "stock_dashboard/internal/feature/auth/transport/handler"
	authusecase "stock_dashboard/internal/feature/auth/usecase"
	dashboardhandler "stock_dashboard/internal/feature/dashboard/transport/handler"
	quoteshandler "stock_dashboard/internal/feature/quotes/transport/handler"
	quotesusecase "stock_dashboard/internal/feature/quotes/usecase"
	symbolshandler "stock_dashboard/internal/feature/symbols/transport/handler"
	symbolsusecase "stock_dashboard/internal/feature/symbols/usecase"
	watchlistadapters "stock_dashboard/internal/feature/watchlist/adapters"
	watchlisthandler "stock_dashboard/internal/feature/watchlist/transport/handler"
	watchlistusecase "stock_dashboard/internal/feature/watchlist/usecase"
	"stock_dashboard/internal/platform/config"
	"stock_dashboard/internal/platform/db"
	healthhandler "stock_dashboard/internal/platform/http/handler"
	jwtmw "stock_dashboard/internal/platform/jwt"
	"stock_dashboard/internal/platform/logger"
	infraredis "stock_dashboard/internal/platform/redis"
	"stock_dashboard/internal/platform/scheduler"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.NewLogger(cfg.Log.Level, cfg.Log.Format))

	// JWT_SECRETチェック
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	models := append(authadapters.Models(), watchlistadapters.Models()...)
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), models...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
	switch {
	case err != nil:
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	case rdb == nil:
		slog.Warn("REDIS_HOST is not set. Running without cache; dashboard state is kept in memory.")
	default:
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	markets := di.NewMarkets(rdb, cfg.Cache.QuoteTTL)
	userRepo := authadapters.NewUserPostgres(gdb)
	sessionRepo := di.NewSessionRepository(rdb, gdb)
	watchlistRepo := watchlistadapters.NewWatchlistPostgres(gdb)
	states := di.NewClientStateProvider(rdb, cfg.Cache.ClientStateTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration))
	quotesUC := quotesusecase.NewQuotesUsecase(markets.QuoteRepositories())
	symbolsUC := symbolsusecase.NewSymbolUsecase(markets.SymbolSources())
	watchlistUC := watchlistusecase.NewWatchlistUsecase(watchlistRepo)

	// Handler
	r := router.NewRouter(router.Handlers{
		Health:    healthhandler.NewHealthHandler(healthChecks(gdb.DB, rdb)),
		Auth:      authhandler.NewAuthHandler(authUC),
		Quotes:    quoteshandler.NewQuotesHandler(quotesUC),
		Symbols:   symbolshandler.NewSymbolHandler(symbolsUC),
		Watchlist: watchlisthandler.NewWatchlistHandler(watchlistUC),
		Dashboard: dashboardhandler.NewDashboardHandler(states, quotesUC, watchlistUC, cfg.HTTP.SecureCookie),
	}, router.Options{
		JWTSecret:          cfg.JWT.Secret,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	})

	// 期限切れセッションの定期削除
	sched := scheduler.New(ctx)
	if err := sched.RegisterSessionPurge(cfg.Schedule.SessionPurgeCron, authUC); err != nil {
		slog.Error("failed to register scheduled jobs", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

// healthChecks は /readyz で確認する依存先を返します。
func healthChecks(sqlDB func() (*sql.DB, error), rdb *redisv9.Client) map[string]healthhandler.Check {
	checks := map[string]healthhandler.Check{
		"db": func(ctx context.Context) error {
			d, err := sqlDB()
			if err != nil {
				return err
			}
			return d.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
