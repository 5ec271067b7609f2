// Package testdb opens migrated databases for tests.
//
// By default every call gets its own SQLite file under t.TempDir(). When
// FLASHMIND_TEST_DATABASE_URL is set the tests run against that PostgreSQL
// database instead; tables are emptied on open, so run such packages with
// go test -p 1.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/config"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/platform/sqlstore"
)

// URLEnvVar names the environment variable selecting a PostgreSQL database.
const URLEnvVar = "FLASHMIND_TEST_DATABASE_URL"

// Timeout bounds setup queries.
const Timeout = 10 * time.Second

// IsPostgres reports whether tests run against PostgreSQL.
func IsPostgres() bool {
	return os.Getenv(URLEnvVar) != ""
}

// Config returns the database configuration for the current test.
func Config(t testing.TB) config.DatabaseConfig {
	t.Helper()
	if url := os.Getenv(URLEnvVar); url != "" {
		return config.DatabaseConfig{Driver: sqlstore.DriverPostgres, URL: url}
	}
	return config.DatabaseConfig{
		Driver: sqlstore.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "test.db"),
	}
}

// Open returns a migrated, empty database that is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, _ := OpenWithConfig(t)
	return db
}

// OpenWithConfig is Open that also returns the configuration used.
func OpenWithConfig(t testing.TB) (*sql.DB, config.DatabaseConfig) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	cfg := Config(t)
	db, err := sqlstore.Open(ctx, cfg)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger()
	m, err := sqlstore.NewMigrator(db, cfg.Driver, log)
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx), "failed to migrate test database")

	if cfg.Driver == sqlstore.DriverPostgres {
		_, err := db.ExecContext(ctx, `TRUNCATE cards, topics`)
		require.NoError(t, err, "failed to reset test database")
	}

	return db, cfg
}
