package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/scoring"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/store"
)

// TopicDetail is a topic with the statistics shown next to it.
type TopicDetail struct {
	domain.Topic
	CardCount   int `json:"cardCount"`
	SuccessRate int `json:"successRate"`
}

// TopicService manages topics.
type TopicService interface {
	// Create adds a topic. An empty emoji gets the default one.
	Create(ctx context.Context, name, emoji string) (*domain.Topic, error)

	// Get returns a topic with its card count and success rate.
	// Returns store.ErrTopicNotFound for an unknown id.
	Get(ctx context.Context, id string) (*TopicDetail, error)

	// List returns every topic with its statistics, oldest first.
	List(ctx context.Context) ([]TopicDetail, error)

	// Update renames a topic and changes its emoji.
	Update(ctx context.Context, id, name, emoji string) (*domain.Topic, error)

	// Delete removes a topic and all of its cards in one transaction.
	Delete(ctx context.Context, id string) error
}

type topicServiceImpl struct {
	db     *sql.DB
	topics store.TopicStore
	cards  store.CardStore
	logger *slog.Logger
}

// NewTopicService creates a TopicService.
// It returns an error if any of the required dependencies are nil.
func NewTopicService(
	db *sql.DB,
	topics store.TopicStore,
	cards store.CardStore,
	logger *slog.Logger,
) (TopicService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if topics == nil {
		return nil, domain.NewValidationError("topics", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &topicServiceImpl{
		db:     db,
		topics: topics,
		cards:  cards,
		logger: logger.With(slog.String("component", "topic_service")),
	}, nil
}

func (s *topicServiceImpl) Create(ctx context.Context, name, emoji string) (*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topic, err := domain.NewTopic(name, emoji)
	if err != nil {
		return nil, err
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		log.Error("failed to create topic", slog.String("error", err.Error()))
		return nil, NewServiceError("topic", "create", "failed to store topic", err)
	}

	log.Info("topic created", slog.String("topic_id", topic.ID))
	return topic, nil
}

func (s *topicServiceImpl) Get(ctx context.Context, id string) (*TopicDetail, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("topic", "get", "failed to load topic", err)
	}

	cards, err := s.cards.ListByTopic(ctx, id)
	if err != nil {
		return nil, NewServiceError("topic", "get", "failed to load cards", err)
	}

	return &TopicDetail{
		Topic:       *topic,
		CardCount:   len(cards),
		SuccessRate: scoring.SuccessRate(cards),
	}, nil
}

func (s *topicServiceImpl) List(ctx context.Context) ([]TopicDetail, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, NewServiceError("topic", "list", "failed to load topics", err)
	}

	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, NewServiceError("topic", "list", "failed to load cards", err)
	}

	byTopic := make(map[string][]domain.Card, len(topics))
	for _, c := range cards {
		byTopic[c.TopicID] = append(byTopic[c.TopicID], c)
	}

	details := make([]TopicDetail, 0, len(topics))
	for _, t := range topics {
		details = append(details, TopicDetail{
			Topic:       t,
			CardCount:   len(byTopic[t.ID]),
			SuccessRate: scoring.SuccessRate(byTopic[t.ID]),
		})
	}
	return details, nil
}

func (s *topicServiceImpl) Update(ctx context.Context, id, name, emoji string) (*domain.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("topic", "update", "failed to load topic", err)
	}

	if err := topic.Rename(name, emoji); err != nil {
		return nil, err
	}

	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, NewServiceError("topic", "update", "failed to store topic", err)
	}
	return topic, nil
}

func (s *topicServiceImpl) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if removed, err = s.cards.WithTx(tx).DeleteByTopic(ctx, id); err != nil {
			return err
		}
		return s.topics.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return NewServiceError("topic", "delete", "failed to delete topic", err)
	}

	log.Info("topic deleted",
		slog.String("topic_id", id),
		slog.Int64("cards_removed", removed))
	return nil
}
