package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/api"
	"github.com/p-devianne/flashmind/internal/api/middleware"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/platform/sqlstore"
	"github.com/p-devianne/flashmind/internal/service"
	"github.com/p-devianne/flashmind/internal/testdb"
)

type testServer struct {
	*httptest.Server
	logs *logger.TestLogBuffer
}

// newTestServer wires every handler against a fresh SQLite database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log, buf := logger.NewTestLogger()
	db := testdb.Open(t)

	topics := sqlstore.NewTopicStore(db, log)
	cards := sqlstore.NewCardStore(db, log)

	topicSvc, err := service.NewTopicService(db, topics, cards, log)
	require.NoError(t, err)
	cardSvc, err := service.NewCardService(topics, cards, log)
	require.NoError(t, err)
	studySvc, err := service.NewStudyService(topics, cards, study.NewScheduler(nil), nil, log)
	require.NoError(t, err)
	backupSvc, err := service.NewBackupService(db, topics, cards, log)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Route("/api", func(r chi.Router) {
		api.NewTopicHandler(topicSvc, log).RegisterRoutes(r)
		api.NewCardHandler(cardSvc, log).RegisterRoutes(r)
		api.NewStudyHandler(studySvc, log).RegisterRoutes(r)
		api.NewBackupHandler(backupSvc, log).RegisterRoutes(r)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, logs: buf}
}

// do sends a request with an optional JSON body and decodes a JSON reply
// into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (s *testServer) createTopic(t *testing.T, name string) api.TopicResponse {
	t.Helper()
	var topic api.TopicResponse
	resp := s.do(t, http.MethodPost, "/api/topics", api.TopicRequest{Name: name}, &topic)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return topic
}

func (s *testServer) createCard(t *testing.T, topicID, question, answer string) api.CardResponse {
	t.Helper()
	var card api.CardResponse
	resp := s.do(t, http.MethodPost, "/api/topics/"+topicID+"/cards",
		api.CardRequest{Question: question, Answer: answer}, &card)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return card
}
