package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// Migrator applies the embedded schema migrations.
type Migrator struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

// NewMigrator creates a Migrator for db opened with the given driver
// ("sqlite" or "postgres").
func NewMigrator(db *sql.DB, driver string, logger *slog.Logger) (*Migrator, error) {
	if db == nil {
		panic("db cannot be nil")
	}
	d, err := dialect(driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "migrations")),
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(func() error { return goose.UpContext(ctx, m.db, migrationsDir) })
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(func() error { return goose.DownContext(ctx, m.db, migrationsDir) })
}

// Status logs the applied state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	return m.run(func() error { return goose.StatusContext(ctx, m.db, migrationsDir) })
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.run(func() error {
		var err error
		version, err = goose.GetDBVersionContext(ctx, m.db)
		return err
	})
	return version, err
}

// Run executes a migration command by name: up, down, status or version.
func (m *Migrator) Run(ctx context.Context, command string) error {
	switch command {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "status":
		return m.Status(ctx)
	case "version":
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}
		m.logger.Info("current schema version", slog.Int64("version", v))
		return nil
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

func (m *Migrator) run(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&slogGooseLogger{logger: m.logger})
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := fn(); err != nil {
		m.logger.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// slogGooseLogger routes goose output through slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It logs at error level and does not exit;
// goose also returns the error to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
