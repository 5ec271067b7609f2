package sqlstore_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/testdb"
)

// openTestDB returns a migrated, empty database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return testdb.Open(t)
}

var base = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func topicAt(id, name string, offset time.Duration) *domain.Topic {
	return &domain.Topic{
		ID:        id,
		Name:      name,
		Emoji:     domain.DefaultTopicEmoji,
		CreatedAt: base.Add(offset),
		UpdatedAt: base.Add(offset),
	}
}

func cardAt(id, topicID string, score int, offset time.Duration) *domain.Card {
	return &domain.Card{
		ID:        id,
		TopicID:   topicID,
		Question:  "question " + id,
		Answer:    "answer " + id,
		Score:     score,
		CreatedAt: base.Add(offset),
		UpdatedAt: base.Add(offset),
	}
}
