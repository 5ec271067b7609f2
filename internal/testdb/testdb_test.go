package testdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/testdb"
)

func TestOpen_ReturnsEmptyMigratedDatabase(t *testing.T) {
	db, cfg := testdb.OpenWithConfig(t)

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM topics`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM cards`).Scan(&n))
	assert.Zero(t, n)

	assert.Equal(t, testdb.IsPostgres(), cfg.Driver == "postgres")
}
