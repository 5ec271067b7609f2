// Command server runs the FlashMind HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/p-devianne/flashmind/internal/app"
	"github.com/p-devianne/flashmind/internal/config"
	"github.com/p-devianne/flashmind/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"auth_enabled", cfg.Auth.AuthEnabled())

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	return startHTTPServer(ctx, a, newRouter(a))
}
