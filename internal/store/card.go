package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create inserts a new card.
	// Returns ErrDuplicate for an existing id and ErrInvalidEntity when the
	// card is invalid or its topic does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by id.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id string) (*domain.Card, error)

	// ListByTopic returns the cards of a topic ordered by creation time.
	// An unknown topic yields an empty slice.
	ListByTopic(ctx context.Context, topicID string) ([]domain.Card, error)

	// List returns every card in the store.
	List(ctx context.Context) ([]domain.Card, error)

	// UpdateContent replaces the stored question and answer and the updated
	// time. The score is left as stored.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateContent(ctx context.Context, card *domain.Card) error

	// AddScore adds delta to the stored score, sets the updated time and
	// returns the card as stored afterwards.
	// Returns ErrCardNotFound if the card does not exist.
	AddScore(ctx context.Context, id string, delta int, updatedAt time.Time) (*domain.Card, error)

	// Delete removes a card.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteByTopic removes every card of a topic and returns how many were
	// removed.
	DeleteByTopic(ctx context.Context, topicID string) (int64, error)

	// CountByTopic returns the number of cards in a topic.
	CountByTopic(ctx context.Context, topicID string) (int, error)

	// WithTx returns a CardStore bound to the transaction.
	WithTx(tx *sql.Tx) CardStore
}
