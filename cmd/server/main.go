// Command eventboard-server starts the eventboard HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eventboard/eventboard/internal/config"
	"github.com/eventboard/eventboard/internal/identity"
	"github.com/eventboard/eventboard/internal/limiter"
	"github.com/eventboard/eventboard/internal/migrate"
	"github.com/eventboard/eventboard/internal/repository/postgres"
	httpserver "github.com/eventboard/eventboard/internal/server/http"
	"github.com/eventboard/eventboard/internal/service"
	"github.com/eventboard/eventboard/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	eventRepo := postgres.NewEventRepo(db)
	commentRepo := postgres.NewCommentRepo(db)

	var verifier identity.Verifier = identity.Disabled{}
	if cfg.GoogleClientID != "" {
		verifier = identity.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		logger.Warn("google client id not set, federated login disabled")
	}

	lim := limiter.NewPGWithQuerier(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)

	// Services
	codec := token.New([]byte(cfg.JWTKey), cfg.TokenTTL)
	authSvc := service.NewAuthService(userRepo, codec, verifier, lim)
	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	commentSvc := service.NewCommentService(commentRepo, eventRepo)

	api := httpserver.New(authSvc, userSvc, eventSvc, commentSvc, codec, logger, cfg.SecureCookies)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
