// @title        Network Portal BFF
// @version      1.0
// @description  Session-backed gateway between the self-service portal and the network services backend.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/netondemand/portal/docs"
	"github.com/netondemand/portal/internal/api"
	"github.com/netondemand/portal/internal/api/handler"
	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/service"
	"github.com/netondemand/portal/internal/infrastructure/backend"
	mongostore "github.com/netondemand/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/netondemand/portal/internal/infrastructure/db/redis"
	"github.com/netondemand/portal/internal/infrastructure/queue"
	"github.com/netondemand/portal/internal/pkg/config"
	"github.com/netondemand/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "portal-bff",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	audit, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = audit.Close(5 * time.Second) }()

	activityRepo := mongostore.NewActivityRepository(audit.Database(), cfg.Activity.Retention)
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Activity pipeline ---
	activitySvc := service.NewActivityService(activityRepo, logger.Component("activity"))
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, activitySvc, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// --- Backend ---
	client := backend.NewClient(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)
	authAPI := backend.NewAuthAPI(client)

	sessions := redisstore.NewSessionStore(rdb, cfg.Session.TTL, cfg.Session.RememberTTL)
	catalogCache := redisstore.NewCatalogCache(rdb, cfg.Catalog.CacheTTL, logger.Component("catalog_cache"))

	// --- Services ---
	authSvc := service.NewAuthService(authAPI, sessions, dispatcher, logger.Component("auth"))
	catalogSvc := service.NewCatalogService(backend.NewCatalogAPI(client), catalogCache, logger.Component("catalog"))
	orderSvc := service.NewOrderService(backend.NewOrderAPI(client), redisstore.NewSubmitGuard(rdb), dispatcher, logger.Component("orders"))
	profileSvc := service.NewProfileService(authAPI, sessions, dispatcher, logger.Component("profile"))

	e := api.NewRouter(api.Deps{
		Log:       logger.Component("http"),
		StaticDir: cfg.StaticDir,
		Cookie: middleware.CookieConfig{
			Secure:      cfg.Production(),
			TTL:         cfg.Session.TTL,
			RememberTTL: cfg.Session.RememberTTL,
		},
		Auth:     authSvc,
		Catalog:  catalogSvc,
		Orders:   orderSvc,
		Profile:  profileSvc,
		Activity: activitySvc,
		Checks: map[string]handler.Check{
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			"mongodb": audit.Ping,
			"backend": client.Ping,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", client.BaseURL()).Msg("portal BFF listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
