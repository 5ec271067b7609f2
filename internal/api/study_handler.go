package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/p-devianne/flashmind/internal/api/shared"
	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/service"
)

// StudyHandler serves /api/sessions.
type StudyHandler struct {
	study  service.StudyService
	logger *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc service.StudyService, logger *slog.Logger) *StudyHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("study service cannot be nil for StudyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		study:  svc,
		logger: logger.With(slog.String("component", "study_handler")),
	}
}

// RegisterRoutes mounts the session routes on r.
func (h *StudyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.StartSession)
	r.Get("/sessions/{id}", h.GetSession)
	r.Delete("/sessions/{id}", h.EndSession)
	r.Post("/sessions/{id}/flip", h.Flip)
	r.Post("/sessions/{id}/feedback", h.SubmitFeedback)
	r.Post("/sessions/{id}/skip", h.Skip)
	r.Put("/sessions/{id}/mode", h.SetMode)
}

// StartSession handles POST /api/sessions.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	state, err := h.study.Start(r.Context(), req.TopicID, study.Mode(req.Mode))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}

	log.Debug("study session started",
		slog.String("session_id", state.ID),
		slog.String("topic_id", state.TopicID),
		slog.String("mode", string(state.Mode)))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(state))
}

// GetSession handles GET /api/sessions/{id}.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	state, err := h.study.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}

// Flip handles POST /api/sessions/{id}/flip.
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	state, err := h.study.Flip(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}

// SubmitFeedback handles POST /api/sessions/{id}/feedback.
func (h *StudyHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	feedback, err := domain.ParseFeedback(req.Feedback)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.study.SubmitFeedback(r.Context(), id, feedback)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record feedback")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		advanceResponse(&result.Scored, result.PassCompleted, result.State))
}

// Skip handles POST /api/sessions/{id}/skip.
func (h *StudyHandler) Skip(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	state, passCompleted, err := h.study.Skip(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, advanceResponse(nil, passCompleted, state))
}

// SetMode handles PUT /api/sessions/{id}/mode.
func (h *StudyHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req ModeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	state, err := h.study.SetMode(r.Context(), id, study.Mode(req.Mode))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change study mode")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}

// EndSession handles DELETE /api/sessions/{id}.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	state, err := h.study.End(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(state))
}
