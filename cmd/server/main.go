// Command gf-server starts the feed HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/goph-feed/internal/config"
	"github.com/and161185/goph-feed/internal/crypto"
	"github.com/and161185/goph-feed/internal/logging"
	"github.com/and161185/goph-feed/internal/migrate"
	"github.com/and161185/goph-feed/internal/repository/postgres"
	httpserver "github.com/and161185/goph-feed/internal/server/http"
	"github.com/and161185/goph-feed/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves the HTTP API until a signal arrives.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("env", cfg.Env),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer db.Close()

	params := crypto.DefaultParams
	if cfg.IsTest() {
		params = crypto.TestParams
	}
	hasher, err := crypto.NewHasher([]byte(cfg.SecretKey), params)
	if err != nil {
		logger.Fatal("hasher", zap.Error(err))
	}

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	tokenRepo := postgres.NewTokenRepo(db)
	followRepo := postgres.NewFollowRepo(db)
	eventRepo := postgres.NewEventRepo(db)

	// Services
	svc := httpserver.Services{
		Auth:    service.NewAuthService(userRepo, tokenRepo, hasher),
		Users:   service.NewUserService(userRepo),
		Follows: service.NewFollowService(followRepo),
		Events:  service.NewEventService(eventRepo, nil),
		Feed:    service.NewFeedService(eventRepo),
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpserver.New(svc, db, logger, cfg.MaxBodyBytes).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
