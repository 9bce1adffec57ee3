package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/config"
	"github.com/hamed0406/upmonitor/internal/devapi"
	"github.com/hamed0406/upmonitor/internal/logging"
	"github.com/hamed0406/upmonitor/internal/probe"
	"github.com/hamed0406/upmonitor/internal/repo/memory"
	"github.com/hamed0406/upmonitor/internal/scheduler"
	"github.com/hamed0406/upmonitor/internal/security"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, "devapi", cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := memory.New() // later: swap to a DB-backed store
	checker := &probe.RetryChecker{
		Inner:    probe.NewHTTPChecker(cfg.HTTPTimeout),
		Attempts: cfg.RetryAttempts,
		Backoff:  cfg.RetryBackoff,
	}
	tokens := security.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	api := devapi.NewServer(logger, store, tokens, checker)

	rc := scheduler.NewRechecker(logger, store, store, checker, cfg.CheckInterval, cfg.HTTPTimeout, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rc.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-done
	logger.Info("api_stopped")
	if err = multierr.Append(err, logger.Sync()); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
