// Package app provides application initialization and dependency injection.
//
// App is the container that wires configuration, the artifact spool, the
// session registry, the QR codec, the stats recorder and the Telegram
// transport into a running bot. Construction is fail-fast: any component
// that cannot start aborts Setup and releases what was already opened.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/j31732830-dot/Qr/internal/artifact"
	"github.com/j31732830-dot/Qr/internal/bot"
	"github.com/j31732830-dot/Qr/internal/config"
	"github.com/j31732830-dot/Qr/internal/i18n"
	"github.com/j31732830-dot/Qr/internal/qr"
	"github.com/j31732830-dot/Qr/internal/session"
	"github.com/j31732830-dot/Qr/internal/stats"
	"github.com/j31732830-dot/Qr/internal/telegram"
)

// App is the core application container.
type App struct {
	Config *config.Config

	Store      *artifact.Store
	Sessions   *session.Registry
	Stats      *stats.Recorder
	Manager    *bot.Manager
	Dispatcher *telegram.Dispatcher

	logger *slog.Logger
}

// Setup constructs every component and wires them together.
// The spool is flushed before use so artifacts orphaned by a previous
// crash never outlive their intended TTL.
func Setup(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	i18n.Init(cfg.Language)

	store, err := artifact.New(artifact.Config{Dir: cfg.SpoolDir}, logger.With("component", "artifact"))
	if err != nil {
		return nil, fmt.Errorf("opening artifact store: %w", err)
	}
	if err = store.FlushAll(); err != nil {
		logger.Warn("startup flush incomplete", "error", err)
	}

	recorder, err := stats.New(cfg.StatsFile, logger.With("component", "stats"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("opening stats recorder: %w", err)
	}

	sessions := session.NewRegistry(cfg.SessionIdleEviction, nil, logger.With("component", "session"))

	api := telegram.NewClient(nil, telegram.DefaultBaseURL, cfg.BotToken)
	sender := telegram.NewSender(api)

	manager := bot.New(bot.Config{
		MaxTextLen:        cfg.MaxTextLen,
		PreviewLen:        cfg.PreviewLen,
		DocumentThreshold: cfg.DocumentThreshold,
		ArtifactTTL:       cfg.ArtifactTTL,
		CodecTimeout:      cfg.CodecTimeout,
		DeliveryTimeout:   cfg.DeliveryTimeout,
		RetainUploads:     cfg.RetainUploads,
		RateLimit:         cfg.RateLimit,
		RateBurst:         cfg.RateBurst,
	}, sessions, store, qr.New(0), sender, recorder, logger.With("component", "bot"))

	dispatcher := telegram.NewDispatcher(api, manager, cfg.PollTimeout, logger.With("component", "telegram"))

	return &App{
		Config:     cfg,
		Store:      store,
		Sessions:   sessions,
		Stats:      recorder,
		Manager:    manager,
		Dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Run starts the background sweeper and stats loop, then blocks on the
// update dispatcher until ctx is cancelled. Background loops are joined
// before Run returns so Close sees a quiescent store.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Store.Run(ctx, a.Config.SweepInterval)
	}()
	go func() {
		defer wg.Done()
		a.Stats.Run(ctx)
	}()

	err := a.Dispatcher.Run(ctx)
	wg.Wait()
	return err
}

// Close flushes the spool and releases the lock. Safe to call after Run
// has returned; artifacts created during shutdown are removed here.
func (a *App) Close() error {
	a.logger.Info("shutting down", "live_artifacts", a.Store.Count())

	if err := a.Store.FlushAll(); err != nil {
		a.logger.Warn("shutdown flush incomplete", "error", err)
	}
	return a.Store.Close()
}
