package store

import (
	"context"
	"database/sql"

	"github.com/p-devianne/flashmind/internal/domain"
)

// TopicStore defines the interface for topic persistence.
type TopicStore interface {
	// Create inserts a new topic.
	// Returns ErrDuplicate if a topic with the same id exists and
	// ErrInvalidEntity if the topic fails validation.
	Create(ctx context.Context, topic *domain.Topic) error

	// GetByID retrieves a topic by id.
	// Returns ErrTopicNotFound if the topic does not exist.
	GetByID(ctx context.Context, id string) (*domain.Topic, error)

	// List returns all topics ordered by creation time, oldest first.
	List(ctx context.Context) ([]domain.Topic, error)

	// Update overwrites the name, emoji and updated time of an existing topic.
	// Returns ErrTopicNotFound if the topic does not exist.
	Update(ctx context.Context, topic *domain.Topic) error

	// Delete removes a topic.
	// Returns ErrTopicNotFound if the topic does not exist. Cards belonging
	// to the topic must be removed first, in the same transaction, with
	// CardStore.DeleteByTopic.
	Delete(ctx context.Context, id string) error

	// WithTx returns a TopicStore bound to the transaction.
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return topics.WithTx(tx).Delete(ctx, id)
	//   })
	WithTx(tx *sql.Tx) TopicStore
}
