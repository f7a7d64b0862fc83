package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/auth"
	"github.com/Abhigulve/mid-day-meal/internal/catalog"
	"github.com/Abhigulve/mid-day-meal/internal/config"
	"github.com/Abhigulve/mid-day-meal/internal/db"
	"github.com/Abhigulve/mid-day-meal/internal/logging"
	"github.com/Abhigulve/mid-day-meal/internal/mealrecord"
	"github.com/Abhigulve/mid-day-meal/internal/menu"
	"github.com/Abhigulve/mid-day-meal/internal/metrics"
	"github.com/Abhigulve/mid-day-meal/internal/report"
	"github.com/Abhigulve/mid-day-meal/internal/router"
	"github.com/Abhigulve/mid-day-meal/internal/school"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	logging.Setup(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.ConnectPostgres(ctx, db.Options{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer pgDB.Close()

	// ───────────────────────── CACHE ─────────────────────────
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, catalog cache disabled")
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	m := metrics.New()

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}
	authService := auth.NewService(auth.NewPostgresUserRepository(pgDB), tokens)

	schoolService := school.NewService(school.NewPostgresRepository(pgDB))

	catalogService := catalog.NewService(
		catalog.NewCachedRepository(catalog.NewPostgresRepository(pgDB), rdb, cfg.CatalogCacheTTL),
	)

	menuService := menu.NewService(menu.NewPostgresRepository(pgDB), catalogService, nil)

	ledger := mealrecord.NewService(
		mealrecord.NewPostgresRepository(pgDB),
		schoolService,
		menuService,
		mealrecord.PolicyFor(cfg.StrictMealCounts),
		nil,
		m,
	)

	reportService := report.NewService(report.NewPostgresRepository(pgDB), nil)

	// ───────────────────────── HTTP ─────────────────────────
	r := router.NewRouter(router.Services{
		Auth:        authService,
		Tokens:      tokens,
		Schools:     schoolService,
		Catalog:     catalogService,
		Menus:       menuService,
		Ledger:      ledger,
		Reports:     reportService,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
