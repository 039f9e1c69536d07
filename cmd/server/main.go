package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"swot_backend/internal/app/server"
	"swot_backend/internal/platform/config"
	"swot_backend/internal/platform/logging"
)

func main() {
	// 設定は起動時に1回だけ読み込む
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.UserMessage(err))
		os.Exit(1)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
