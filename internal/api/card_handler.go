package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/p-devianne/flashmind/internal/api/shared"
	"github.com/p-devianne/flashmind/internal/service"
)

// CardHandler serves card routes.
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(cards service.CardService, logger *slog.Logger) *CardHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card service cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// RegisterRoutes mounts the card routes on r.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/topics/{id}/cards", h.ListCards)
	r.Post("/topics/{id}/cards", h.CreateCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Put("/cards/{id}", h.UpdateCard)
	r.Delete("/cards/{id}", h.DeleteCard)
}

// ListCards handles GET /api/topics/{id}/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	topicID, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	cards, err := h.cards.ListByTopic(r.Context(), topicID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	resp := make([]CardResponse, 0, len(cards))
	for i := range cards {
		resp = append(resp, cardToResponse(&cards[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateCard handles POST /api/topics/{id}/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	topicID, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cards.Create(r.Context(), topicID, req.Question, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID), slog.String("topic_id", topicID))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /api/cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	card, err := h.cards.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /api/cards/{id}. The score is kept.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cards.Update(r.Context(), id, req.Question, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", requestLogger(r, h.logger))
	if !ok {
		return
	}

	if err := h.cards.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
