// Package service provides the application operations behind the HTTP API
// and the CLI: managing topics and cards, running study sessions, and
// importing or exporting backups.
//
// Services return sentinel errors from the domain, store and study packages
// (possibly wrapped) so callers can branch with errors.Is; the API layer
// maps them to status codes.
package service
