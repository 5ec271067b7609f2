// Package app wires configuration, storage, services and event handlers
// into one value shared by the HTTP server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/p-devianne/flashmind/internal/auth"
	"github.com/p-devianne/flashmind/internal/config"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/events"
	"github.com/p-devianne/flashmind/internal/metrics"
	"github.com/p-devianne/flashmind/internal/platform/sqlstore"
	"github.com/p-devianne/flashmind/internal/service"
	"github.com/p-devianne/flashmind/internal/store"
)

// App holds the long-lived dependencies of a running process.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Migrator *sqlstore.Migrator
	Topics   store.TopicStore
	Cards    store.CardStore

	TopicService  service.TopicService
	CardService   service.CardService
	StudyService  service.StudyService
	BackupService service.BackupService

	Emitter *events.InMemoryEventEmitter
	Metrics *metrics.Recorder

	// Tokens is nil when authentication is disabled.
	Tokens auth.TokenService
}

// Option customises New.
type Option func(*options)

type options struct {
	migrate   bool
	scheduler *study.Scheduler
}

// WithoutMigrations skips applying pending migrations on start.
func WithoutMigrations() Option {
	return func(o *options) { o.migrate = false }
}

// WithScheduler replaces the default study scheduler.
func WithScheduler(s *study.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// New opens the database, applies migrations and builds every service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := options{migrate: true}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database connection established", slog.String("driver", cfg.Database.Driver))

	a := &App{Config: cfg, Logger: logger, DB: db}
	if err := a.init(ctx, o); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context, o options) error {
	var err error
	cfg, logger := a.Config, a.Logger

	a.Migrator, err = sqlstore.NewMigrator(a.DB, cfg.Database.Driver, logger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if o.migrate {
		if err := a.Migrator.Up(ctx); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	a.Topics = sqlstore.NewTopicStore(a.DB, logger)
	a.Cards = sqlstore.NewCardStore(a.DB, logger)

	a.Metrics = metrics.NewRecorder(logger)
	a.Emitter = events.NewInMemoryEventEmitter(logger)
	a.Emitter.RegisterHandler(a.Metrics)

	a.TopicService, err = service.NewTopicService(a.DB, a.Topics, a.Cards, logger)
	if err != nil {
		return fmt.Errorf("failed to create topic service: %w", err)
	}
	a.CardService, err = service.NewCardService(a.Topics, a.Cards, logger)
	if err != nil {
		return fmt.Errorf("failed to create card service: %w", err)
	}
	a.BackupService, err = service.NewBackupService(a.DB, a.Topics, a.Cards, logger)
	if err != nil {
		return fmt.Errorf("failed to create backup service: %w", err)
	}

	scheduler := o.scheduler
	if scheduler == nil {
		scheduler = study.NewScheduler(nil)
	}
	defaultMode, err := study.ParseMode(cfg.Study.DefaultMode)
	if err != nil {
		return fmt.Errorf("invalid default study mode: %w", err)
	}
	a.StudyService, err = service.NewStudyService(
		a.Topics, a.Cards, scheduler, a.Emitter, logger,
		service.WithDefaultMode(defaultMode),
		service.WithSessionIdleTimeout(time.Duration(cfg.Study.SessionIdleMinutes)*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to create study service: %w", err)
	}

	if cfg.Auth.AuthEnabled() {
		a.Tokens, err = auth.NewTokenService(cfg.Auth)
		if err != nil {
			return fmt.Errorf("failed to create token service: %w", err)
		}
		logger.Info("API token authentication enabled",
			slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	}

	return nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
