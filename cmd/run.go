package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/j31732830-dot/Qr/internal/app"
	"github.com/j31732830-dot/Qr/internal/config"
	"github.com/j31732830-dot/Qr/internal/log"
)

// runBot loads configuration, wires the application and blocks on the
// update loop until SIGINT or SIGTERM.
func runBot() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{Level: cfg.SlogLevel(), JSON: cfg.LogJSON})
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting qr-bot", "version", AppVersion)

	a, err := app.Setup(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	if err = a.Run(ctx); err != nil {
		return fmt.Errorf("running bot: %w", err)
	}

	logger.Info("qr-bot stopped")
	return nil
}
