package service

import (
	"context"
	"log/slog"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/store"
)

// CardService manages the cards of a topic.
type CardService interface {
	// Create adds a card with score 0 to an existing topic.
	// Returns store.ErrTopicNotFound when the topic does not exist.
	Create(ctx context.Context, topicID, question, answer string) (*domain.Card, error)

	// Get returns a card by id.
	Get(ctx context.Context, id string) (*domain.Card, error)

	// ListByTopic returns the cards of an existing topic.
	ListByTopic(ctx context.Context, topicID string) ([]domain.Card, error)

	// Update changes a card's question and answer. The score is kept.
	Update(ctx context.Context, id, question, answer string) (*domain.Card, error)

	// Delete removes a card.
	Delete(ctx context.Context, id string) error
}

type cardServiceImpl struct {
	topics store.TopicStore
	cards  store.CardStore
	logger *slog.Logger
}

// NewCardService creates a CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(topics store.TopicStore, cards store.CardStore, logger *slog.Logger) (CardService, error) {
	if topics == nil {
		return nil, domain.NewValidationError("topics", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		topics: topics,
		cards:  cards,
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

func (s *cardServiceImpl) Create(ctx context.Context, topicID, question, answer string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(topicID, question, answer)
	if err != nil {
		return nil, err
	}

	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return nil, NewServiceError("card", "create", "failed to load topic", err)
	}

	if err := s.cards.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("topic_id", topicID),
			slog.String("error", err.Error()))
		return nil, NewServiceError("card", "create", "failed to store card", err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID),
		slog.String("topic_id", topicID))
	return card, nil
}

func (s *cardServiceImpl) Get(ctx context.Context, id string) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("card", "get", "failed to load card", err)
	}
	return card, nil
}

func (s *cardServiceImpl) ListByTopic(ctx context.Context, topicID string) ([]domain.Card, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return nil, NewServiceError("card", "list", "failed to load topic", err)
	}

	cards, err := s.cards.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, NewServiceError("card", "list", "failed to load cards", err)
	}
	return cards, nil
}

func (s *cardServiceImpl) Update(ctx context.Context, id, question, answer string) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("card", "update", "failed to load card", err)
	}

	if err := card.UpdateContent(question, answer); err != nil {
		return nil, err
	}

	if err := s.cards.UpdateContent(ctx, card); err != nil {
		return nil, NewServiceError("card", "update", "failed to store card", err)
	}
	return card, nil
}

func (s *cardServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		return NewServiceError("card", "delete", "failed to delete card", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("card deleted", slog.String("card_id", id))
	return nil
}
