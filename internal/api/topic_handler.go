package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/p-devianne/flashmind/internal/api/shared"
	"github.com/p-devianne/flashmind/internal/service"
)

// TopicHandler serves /api/topics.
type TopicHandler struct {
	topics service.TopicService
	logger *slog.Logger
}

// NewTopicHandler creates a TopicHandler.
func NewTopicHandler(topics service.TopicService, logger *slog.Logger) *TopicHandler {
	if topics == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("topic service cannot be nil for TopicHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TopicHandler{
		topics: topics,
		logger: logger.With(slog.String("component", "topic_handler")),
	}
}

// RegisterRoutes mounts the topic routes on r.
func (h *TopicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/topics", h.ListTopics)
	r.Post("/topics", h.CreateTopic)
	r.Get("/topics/{id}", h.GetTopic)
	r.Put("/topics/{id}", h.UpdateTopic)
	r.Delete("/topics/{id}", h.DeleteTopic)
}

// ListTopics handles GET /api/topics.
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	details, err := h.topics.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list topics")
		return
	}

	resp := make([]TopicResponse, 0, len(details))
	for i := range details {
		resp = append(resp, topicDetailToResponse(&details[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateTopic handles POST /api/topics.
func (h *TopicHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)

	var req TopicRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	topic, err := h.topics.Create(r.Context(), req.Name, req.Emoji)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create topic")
		return
	}

	log.Debug("topic created", slog.String("topic_id", topic.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, topicToResponse(topic))
}

// GetTopic handles GET /api/topics/{id}.
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	detail, err := h.topics.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get topic")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, topicDetailToResponse(detail))
}

// UpdateTopic handles PUT /api/topics/{id}.
func (h *TopicHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req TopicRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	topic, err := h.topics.Update(r.Context(), id, req.Name, req.Emoji)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update topic")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, topicToResponse(topic))
}

// DeleteTopic handles DELETE /api/topics/{id}. The topic's cards go with it.
func (h *TopicHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.topics.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete topic")
		return
	}

	log.Debug("topic deleted", slog.String("topic_id", id))
	w.WriteHeader(http.StatusNoContent)
}
