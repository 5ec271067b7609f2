package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/p-devianne/flashmind/internal/api/shared"
	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/redact"
)

// pathID returns a non-empty path parameter.
func pathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", domain.NewValidationError(name, "is required", domain.ErrInvalidID)
	}
	return id, nil
}

// handlePathID extracts a path parameter and writes a 400 when it is missing.
func handlePathID(w http.ResponseWriter, r *http.Request, name string, log *slog.Logger) (string, bool) {
	id, err := pathID(r, name)
	if err != nil {
		log.Warn("invalid path parameter", slog.String("param_name", name))
		HandleAPIError(w, r, err, "")
		return "", false
	}
	return id, true
}

// decodeAndValidate decodes a JSON body into req and validates it. On
// failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any, log *slog.Logger) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

func requestLogger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), fallback)
}
