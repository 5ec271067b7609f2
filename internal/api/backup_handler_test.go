package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/api"
	"github.com/p-devianne/flashmind/internal/api/shared"
	"github.com/p-devianne/flashmind/internal/backup"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	src := newTestServer(t)
	topic := src.createTopic(t, "Chemistry")
	src.createCard(t, topic.ID, "H2O", "water")
	src.createCard(t, topic.ID, "NaCl", "salt")

	resp := src.do(t, http.MethodGet, "/api/backup", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "flashmind-backup-")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc backup.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, backup.Version, doc.Version)
	assert.Len(t, doc.Topics, 1)
	assert.Len(t, doc.Cards, 2)

	dst := newTestServer(t)
	var result api.ImportResponse
	resp = dst.do(t, http.MethodPost, "/api/backup/import?format=json", string(raw), &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ImportResponse{TopicsImported: 1, CardsImported: 2}, result)

	resp = dst.do(t, http.MethodPost, "/api/backup/import", string(raw), &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ImportResponse{Skipped: 3}, result)

	var cards []api.CardResponse
	dst.do(t, http.MethodGet, "/api/topics/"+topic.ID+"/cards", nil, &cards)
	assert.Len(t, cards, 2)
}

func TestExportYAML(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	srv.createTopic(t, "Physics")

	resp := srv.do(t, http.MethodGet, "/api/backup?format=yaml", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasSuffix(
		strings.Trim(resp.Header.Get("Content-Disposition"), `"`), ".yaml"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Physics")
}

func TestImportCSV(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	csv := "question,answer,topic\nWhat is 2+2?,4,Math\nCapital of Peru?,Lima,Geography\n"
	var result api.ImportResponse
	resp := srv.do(t, http.MethodPost, "/api/backup/import?format=csv", csv, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, result.TopicsImported)
	assert.Equal(t, 2, result.CardsImported)
}

func TestImportErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		body    string
		message string
	}{
		{"unsupported format", "/api/backup/import?format=xml", "<x/>", "Unsupported backup format"},
		{"broken json", "/api/backup/import", `{"topics": [`, "Invalid backup file"},
		{"missing cards", "/api/backup/import", `{"version":1,"topics":[]}`, "Invalid backup file"},
		{"empty csv", "/api/backup/import?format=csv", "question,answer\n", backup.ErrEmptyCSV.Error()},
		{"unknown csv", "/api/backup/import?format=csv", "a,b\n1,2\n", backup.ErrUnrecognizedCSV.Error()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var errBody shared.ErrorResponse
			resp := srv.do(t, http.MethodPost, tc.path, tc.body, &errBody)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.message, errBody.Error)
		})
	}
}
