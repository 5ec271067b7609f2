package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/store"
)

const cardColumns = `id, topic_id, question, answer, score, created_at, updated_at`

// CardStore implements store.CardStore.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a CardStore on a connection or transaction.
// If logger is nil, slog.Default() is used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return errors.Join(store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		card.ID, card.TopicID, card.Question, card.Answer, card.Score,
		card.CreatedAt.UTC(), card.UpdatedAt.UTC(),
	)
	if err != nil {
		s.logger.Error("failed to create card",
			slog.String("card_id", card.ID),
			slog.String("topic_id", card.TopicID),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.CardStore.
func (s *CardStore) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		s.logger.Error("failed to get card",
			slog.String("card_id", id),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return card, nil
}

// ListByTopic implements store.CardStore.
func (s *CardStore) ListByTopic(ctx context.Context, topicID string) ([]domain.Card, error) {
	return s.query(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE topic_id = $1 ORDER BY created_at, id`, topicID)
}

// List implements store.CardStore.
func (s *CardStore) List(ctx context.Context) ([]domain.Card, error) {
	return s.query(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY created_at, id`)
}

// UpdateContent implements store.CardStore.
func (s *CardStore) UpdateContent(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return errors.Join(store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET question = $2, answer = $3, updated_at = $4 WHERE id = $1`,
		card.ID, card.Question, card.Answer, card.UpdatedAt.UTC(),
	)
	if err != nil {
		s.logger.Error("failed to update card",
			slog.String("card_id", card.ID),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// AddScore implements store.CardStore. The delta is applied to the stored
// score, not to the caller's copy.
func (s *CardStore) AddScore(ctx context.Context, id string, delta int, updatedAt time.Time) (*domain.Card, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET score = score + $2, updated_at = $3 WHERE id = $1`,
		id, delta, updatedAt.UTC(),
	)
	if err != nil {
		s.logger.Error("failed to score card",
			slog.String("card_id", id),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete implements store.CardStore.
func (s *CardStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete card",
			slog.String("card_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// DeleteByTopic implements store.CardStore.
func (s *CardStore) DeleteByTopic(ctx context.Context, topicID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE topic_id = $1`, topicID)
	if err != nil {
		s.logger.Error("failed to delete cards of topic",
			slog.String("topic_id", topicID),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return result.RowsAffected()
}

// CountByTopic implements store.CardStore.
func (s *CardStore) CountByTopic(ctx context.Context, topicID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE topic_id = $1`, topicID).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// WithTx implements store.CardStore.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

func (s *CardStore) query(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

func scanCard(row scanner) (*domain.Card, error) {
	var c domain.Card
	err := row.Scan(&c.ID, &c.TopicID, &c.Question, &c.Answer, &c.Score, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
