package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/p-devianne/flashmind/internal/backup"
	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/store"
)

// ImportResult counts what an import did.
type ImportResult struct {
	TopicsImported int `json:"topicsImported"`
	CardsImported  int `json:"cardsImported"`
	// Skipped counts records that already existed, were invalid, or
	// referenced a topic that exists neither in the store nor the document.
	Skipped int `json:"skipped"`
}

// Empty reports whether nothing new was imported.
func (r ImportResult) Empty() bool {
	return r.TopicsImported == 0 && r.CardsImported == 0
}

// BackupService exports and imports whole-store snapshots.
type BackupService interface {
	// Export returns every topic and card.
	Export(ctx context.Context) (*backup.Document, error)

	// Import adds the document's topics and cards in one transaction.
	// Records whose id already exists are skipped, never overwritten, so
	// importing the same document twice changes nothing the second time.
	Import(ctx context.Context, doc *backup.Document) (ImportResult, error)
}

type backupServiceImpl struct {
	db     *sql.DB
	topics store.TopicStore
	cards  store.CardStore
	logger *slog.Logger
	now    func() time.Time
}

// NewBackupService creates a BackupService.
// It returns an error if any of the required dependencies are nil.
func NewBackupService(
	db *sql.DB,
	topics store.TopicStore,
	cards store.CardStore,
	logger *slog.Logger,
) (BackupService, error) {
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

	return &backupServiceImpl{
		db:     db,
		topics: topics,
		cards:  cards,
		logger: logger.With(slog.String("component", "backup_service")),
		now:    time.Now,
	}, nil
}

func (s *backupServiceImpl) Export(ctx context.Context) (*backup.Document, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, NewServiceError("backup", "export", "failed to load topics", err)
	}
	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, NewServiceError("backup", "export", "failed to load cards", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("backup exported",
		slog.Int("topics", len(topics)),
		slog.Int("cards", len(cards)))
	return backup.NewDocument(topics, cards, s.now()), nil
}

func (s *backupServiceImpl) Import(ctx context.Context, doc *backup.Document) (ImportResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if doc == nil {
		return ImportResult{}, backup.ErrInvalidFormat
	}

	now := s.now().UTC()
	var result ImportResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		topics := s.topics.WithTx(tx)
		cards := s.cards.WithTx(tx)
		result = ImportResult{}

		// Topics the cards may refer to: those already stored and those
		// imported from this document.
		known := map[string]bool{}

		for _, topic := range doc.Topics {
			topic.Normalize(now)
			if err := topic.Validate(); err != nil {
				log.Warn("skipping invalid topic", slog.String("topic_id", topic.ID), slog.String("error", err.Error()))
				result.Skipped++
				continue
			}

			exists, err := topicExists(ctx, topics, topic.ID)
			if err != nil {
				return err
			}
			known[topic.ID] = true
			if exists {
				result.Skipped++
				continue
			}

			if err := topics.Create(ctx, &topic); err != nil {
				return err
			}
			result.TopicsImported++
		}

		for _, card := range doc.Cards {
			card.Normalize(now)
			if err := card.Validate(); err != nil {
				log.Warn("skipping invalid card", slog.String("card_id", card.ID), slog.String("error", err.Error()))
				result.Skipped++
				continue
			}

			if _, err := cards.GetByID(ctx, card.ID); err == nil {
				result.Skipped++
				continue
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			if !known[card.TopicID] {
				exists, err := topicExists(ctx, topics, card.TopicID)
				if err != nil {
					return err
				}
				if !exists {
					log.Warn("skipping card without topic",
						slog.String("card_id", card.ID),
						slog.String("topic_id", card.TopicID))
					result.Skipped++
					continue
				}
				known[card.TopicID] = true
			}

			if err := cards.Create(ctx, &card); err != nil {
				return err
			}
			result.CardsImported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, NewServiceError("backup", "import", "failed to import backup", err)
	}

	log.Info("backup imported",
		slog.Int("topics_imported", result.TopicsImported),
		slog.Int("cards_imported", result.CardsImported),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

func topicExists(ctx context.Context, topics store.TopicStore, id string) (bool, error) {
	_, err := topics.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
