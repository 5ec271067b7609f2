package sqlstore_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/platform/sqlstore"
	"github.com/p-devianne/flashmind/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, store.ErrDuplicate},
		{"pg foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "cards_topic_id_fkey"}, store.ErrInvalidEntity},
		{"pg not null", &pgconn.PgError{Code: "23502"}, store.ErrInvalidEntity},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, store.ErrDuplicate},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, store.ErrInvalidEntity},
		{"wrapped sqlite unique", fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), store.ErrDuplicate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, sqlstore.MapError(tc.in), tc.want)
		})
	}

	assert.NoError(t, sqlstore.MapError(nil))

	other := errors.New("connection reset")
	assert.Same(t, other, sqlstore.MapError(other))

	var pgErr *pgconn.PgError
	require.ErrorAs(t, sqlstore.MapError(&pgconn.PgError{Code: "23505"}), &pgErr, "driver error stays reachable")
}

type rowsResult int64

func (r rowsResult) LastInsertId() (int64, error) { return 0, nil }
func (r rowsResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sqlstore.CheckRowsAffected(rowsResult(1), store.ErrCardNotFound))
	assert.ErrorIs(t, sqlstore.CheckRowsAffected(rowsResult(0), store.ErrCardNotFound), store.ErrCardNotFound)
	assert.Error(t, sqlstore.CheckRowsAffected(nil, store.ErrCardNotFound))
}
