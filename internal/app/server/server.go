// Package server runs the HTTP server until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"swot_backend/internal/app/di"
	"swot_backend/internal/app/router"
	"swot_backend/internal/platform/config"
)

const shutdownTimeout = 10 * time.Second

// New wires the handlers from cfg and returns an unstarted server.
func New(ctx context.Context, cfg *config.Config) (*http.Server, error) {
	swotH, err := di.NewSwotHandler(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(swotH),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	// GIN_MODE が未設定なら、debug ログ以外ではリリースモードにする
	if os.Getenv(gin.EnvGinMode) == "" && cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := New(ctx, cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "model", cfg.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
