// Package sqlstore implements the store interfaces on database/sql.
//
// The same queries run on SQLite (github.com/mattn/go-sqlite3) and PostgreSQL
// (github.com/jackc/pgx/v5/stdlib): they use numbered $n placeholders, which
// both engines accept. The schema is kept in goose migrations embedded in the
// binary.
package sqlstore
