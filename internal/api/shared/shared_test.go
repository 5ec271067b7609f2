package shared

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/platform/logger"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	id := GetTraceID(traced)
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, GetTraceID(SetTraceID(ctx)))

	bad := context.WithValue(ctx, TraceIDKey, 42)
	assert.Empty(t, GetTraceID(bad))
}

func TestGetSubject(t *testing.T) {
	t.Parallel()

	_, ok := GetSubject(context.Background())
	assert.False(t, ok)

	subject, ok := GetSubject(context.WithValue(context.Background(), SubjectContextKey, "cli"))
	assert.True(t, ok)
	assert.Equal(t, "cli", subject)
}

type createTopic struct {
	Name string `json:"name" validate:"required,max=100"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Go"}`, false},
		{"malformed", `{"name":`, true},
		{"unknown field", `{"name":"Go","extra":1}`, true},
		{"trailing object", `{"name":"Go"}{"name":"Rust"}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var v createTopic
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Go", v.Name)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateRequest(createTopic{Name: "Go"}))
	assert.Error(t, ValidateRequest(createTopic{}))
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	req = req.WithContext(context.WithValue(req.Context(), TraceIDKey, "trace-1"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Topic not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Topic not found", TraceID: "trace-1"}, body)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		elevate  bool
		expected string
	}{
		{"server error", http.StatusInternalServerError, false, "ERROR"},
		{"client error", http.StatusBadRequest, false, "DEBUG"},
		{"elevated client error", http.StatusBadRequest, true, "WARN"},
		{"rate limited", http.StatusTooManyRequests, false, "WARN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			log, buf := logger.NewTestLogger()
			req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.status, "Something failed",
				errors.New("dial postgres://u:secret@db:5432/app: refused"), opts...)

			assert.Equal(t, tc.status, w.Code)
			entries := buf.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.expected, entries[0]["level"])
			assert.Equal(t, "Something failed", entries[0]["user_message"])
			assert.NotContains(t, entries[0]["error"], "secret")
			assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
		})
	}
}
