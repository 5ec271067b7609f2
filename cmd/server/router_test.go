package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/app"
	"github.com/p-devianne/flashmind/internal/config"
	"github.com/p-devianne/flashmind/internal/platform/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestApp(t *testing.T, secret string) *app.App {
	t.Helper()
	log, _ := logger.NewTestLogger()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug", CORSAllowedOrigins: []string{"https://flash.example"}},
		Database: config.DatabaseConfig{Driver: "sqlite", URL: filepath.Join(t.TempDir(), "server.db")},
		Study:    config.StudyConfig{DefaultMode: "random"},
		Auth:     config.AuthConfig{TokenSecret: secret, TokenLifetimeMinutes: 60},
	}
	a, err := app.New(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestHealthAndMetrics(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestApp(t, "")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Post(srv.URL+"/api/topics", "application/json", strings.NewReader(`{"name":"Art"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestAuthRequiredWhenSecretConfigured(t *testing.T) {
	a := newTestApp(t, testSecret)
	srv := httptest.NewServer(newRouter(a))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/topics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := a.Tokens.Generate(context.Background(), "test")
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/topics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var topics []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&topics))
	assert.Empty(t, topics)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health stays public")
}

func TestCORSPreflight(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestApp(t, "")))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/topics", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://flash.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "https://flash.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
