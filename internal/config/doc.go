// Package config loads and validates application configuration.
//
// Values come from built-in defaults, an optional flashmind.yaml file, a .env
// file and FLASHMIND_ prefixed environment variables. Nested keys map to
// environment variables by replacing dots with underscores, so
// database.url is read from FLASHMIND_DATABASE_URL.
package config
