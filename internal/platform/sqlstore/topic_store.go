package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/store"
)

const topicColumns = `id, name, emoji, created_at, updated_at`

// TopicStore implements store.TopicStore.
type TopicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTopicStore creates a TopicStore on a connection or transaction.
// If logger is nil, slog.Default() is used.
func NewTopicStore(db store.DBTX, logger *slog.Logger) *TopicStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TopicStore{
		db:     db,
		logger: logger.With(slog.String("component", "topic_store")),
	}
}

var _ store.TopicStore = (*TopicStore)(nil)

// Create implements store.TopicStore.
func (s *TopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	if err := topic.Validate(); err != nil {
		return errors.Join(store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (`+topicColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		topic.ID, topic.Name, topic.Emoji, topic.CreatedAt.UTC(), topic.UpdatedAt.UTC(),
	)
	if err != nil {
		s.logger.Error("failed to create topic",
			slog.String("topic_id", topic.ID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	s.logger.Debug("topic created", slog.String("topic_id", topic.ID))
	return nil
}

// GetByID implements store.TopicStore.
func (s *TopicStore) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+topicColumns+` FROM topics WHERE id = $1`, id)

	topic, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTopicNotFound
	}
	if err != nil {
		s.logger.Error("failed to get topic",
			slog.String("topic_id", id),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return topic, nil
}

// List implements store.TopicStore.
func (s *TopicStore) List(ctx context.Context) ([]domain.Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+topicColumns+` FROM topics ORDER BY created_at, id`)
	if err != nil {
		s.logger.Error("failed to list topics", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer rows.Close()

	topics := []domain.Topic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, MapError(err)
		}
		topics = append(topics, *topic)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return topics, nil
}

// Update implements store.TopicStore.
func (s *TopicStore) Update(ctx context.Context, topic *domain.Topic) error {
	if err := topic.Validate(); err != nil {
		return errors.Join(store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE topics SET name = $1, emoji = $2, updated_at = $3 WHERE id = $4`,
		topic.Name, topic.Emoji, topic.UpdatedAt.UTC(), topic.ID,
	)
	if err != nil {
		s.logger.Error("failed to update topic",
			slog.String("topic_id", topic.ID),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTopicNotFound)
}

// Delete implements store.TopicStore.
func (s *TopicStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete topic",
			slog.String("topic_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTopicNotFound)
}

// WithTx implements store.TopicStore.
func (s *TopicStore) WithTx(tx *sql.Tx) store.TopicStore {
	return &TopicStore{db: tx, logger: s.logger}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(row scanner) (*domain.Topic, error) {
	var t domain.Topic
	if err := row.Scan(&t.ID, &t.Name, &t.Emoji, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
