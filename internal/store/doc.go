// Package store defines interfaces for persisting topics and cards.
// These interfaces keep the services independent of the database engine;
// internal/platform/sqlstore provides the SQL implementation.
package store
