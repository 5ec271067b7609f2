package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/events"
	"github.com/p-devianne/flashmind/internal/platform/sqlstore"
	"github.com/p-devianne/flashmind/internal/store"
	"github.com/p-devianne/flashmind/internal/testdb"
)

type fixture struct {
	db     *sql.DB
	topics *sqlstore.TopicStore
	cards  *sqlstore.CardStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := testdb.Open(t)
	return fixture{
		db:     db,
		topics: sqlstore.NewTopicStore(db, nil),
		cards:  sqlstore.NewCardStore(db, nil),
	}
}

// seedTopic stores a topic with one card per score.
func (f fixture) seedTopic(t *testing.T, name string, scores ...int) (*domain.Topic, []*domain.Card) {
	t.Helper()
	ctx := context.Background()

	topic, err := domain.NewTopic(name, "")
	require.NoError(t, err)
	require.NoError(t, f.topics.Create(ctx, topic))

	cards := make([]*domain.Card, 0, len(scores))
	for _, score := range scores {
		card, err := domain.NewCard(topic.ID, "q", "a")
		require.NoError(t, err)
		card.Score = score
		require.NoError(t, f.cards.Create(ctx, card))
		cards = append(cards, card)
	}
	return topic, cards
}

// mockCardStore delegates to a real store. AddScore is scripted with
// testify/mock: a scripted error is returned as is, otherwise the real
// store applies the score.
type mockCardStore struct {
	mock.Mock
	store.CardStore
}

func (m *mockCardStore) AddScore(ctx context.Context, id string, delta int, updatedAt time.Time) (*domain.Card, error) {
	args := m.Called(ctx, id, delta, updatedAt)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.CardStore.AddScore(ctx, id, delta, updatedAt)
}

// eventLog collects emitted events.
type eventLog struct {
	mu     sync.Mutex
	events []*events.Event
}

func (l *eventLog) EmitEvent(_ context.Context, e *events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}
