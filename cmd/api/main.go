// @title           HubPlus API
// @version         1.0
// @description     Todos, goals, campaigns, vouchers, event sessions and do-not-mail addresses.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        session_id
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

	"hubplus/internal/app"
	"hubplus/internal/config"
	"hubplus/internal/logger"

	_ "hubplus/docs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("config loaded, connecting to dependencies", zap.String("env", cfg.App.Env))
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	return serve(ctx, server, log, application.Close)
}

// serve runs srv until ctx is done or the listener fails, then shuts it down and closes the app.
// A listener failure is returned once cleanup has run.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger, closeApp func(context.Context) error) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error", zap.Error(err))
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown", zap.Error(err))
	}
	if err := closeApp(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("close: %w", err))
	}
	log.Info("stopped")
	return runErr
}
