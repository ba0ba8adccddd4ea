package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridian-club/meridian/internal/app"
	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/members"
	"github.com/meridian-club/meridian/internal/observability"
	"github.com/meridian-club/meridian/internal/platform/cache"
	"github.com/meridian-club/meridian/internal/platform/db"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/users"
	"github.com/meridian-club/meridian/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	// A credential store outage must not keep the whole site down. The
	// process falls back to serving home and static pages while every
	// store-backed route reports unavailable.
	router, cleanup, err := buildRouter(ctx, cfg, logger, templates)
	if err != nil {
		logger.Error("credential store unavailable, serving degraded mode", slog.Any("error", err))
		router = app.NewDegradedRouter(app.DegradedRouterParams{
			Logger:    logger,
			Config:    cfg,
			Templates: templates,
		})
	}
	if cleanup != nil {
		defer cleanup()
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// buildRouter connects to the stores and assembles the full router.
// The returned cleanup closes the connections on shutdown.
func buildRouter(ctx context.Context, cfg *app.Config, logger *slog.Logger, templates *view.Engine) (http.Handler, func(), error) {
	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
		dbpool.Close()
	}

	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	guard := auth.Middleware{Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, cfg.BcryptCost)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager, metrics)

	membersHandler := members.NewHandler(logger, templates, guard)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, templates, csrfManager, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		MembersHandler: membersHandler,
		UsersHandler:   usersHandler,
		Metrics:        metrics,
	})

	return router, cleanup, nil
}
