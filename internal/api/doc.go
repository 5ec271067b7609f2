// Package api exposes topics, cards, study sessions and backups over HTTP.
// Handlers decode and validate requests, call the service layer, and map
// errors to status codes and safe messages in one place (errors.go).
package api
