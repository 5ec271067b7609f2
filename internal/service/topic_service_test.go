package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/service"
	"github.com/p-devianne/flashmind/internal/store"
)

func TestNewTopicServiceRequiresDependencies(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := service.NewTopicService(nil, f.topics, f.cards, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewTopicService(f.db, nil, f.cards, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewTopicService(f.db, f.topics, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTopicServiceLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	svc, err := service.NewTopicService(f.db, f.topics, f.cards, nil)
	require.NoError(t, err)

	created, err := svc.Create(ctx, "  Geography ", "")
	require.NoError(t, err)
	assert.Equal(t, "Geography", created.Name)
	assert.Equal(t, domain.DefaultTopicEmoji, created.Emoji)

	_, err = svc.Create(ctx, " ", "🌍")
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := svc.Update(ctx, created.ID, "World Geography", "🌍")
	require.NoError(t, err)
	assert.Equal(t, "🌍", updated.Emoji)

	_, err = svc.Update(ctx, created.ID, "", "🌍")
	assert.ErrorIs(t, err, domain.ErrTopicNameEmpty)

	_, err = svc.Update(ctx, "missing", "Name", "")
	assert.ErrorIs(t, err, store.ErrTopicNotFound)

	detail, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "World Geography", detail.Name)
	assert.Zero(t, detail.CardCount)
	assert.Zero(t, detail.SuccessRate)
}

func TestTopicServiceStatistics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	strong, _ := f.seedTopic(t, "Strong", 10, 10)
	weak, _ := f.seedTopic(t, "Weak", -10, 10)
	empty, _ := f.seedTopic(t, "Empty")

	svc, err := service.NewTopicService(f.db, f.topics, f.cards, nil)
	require.NoError(t, err)

	detail, err := svc.Get(ctx, weak.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.CardCount)
	assert.Equal(t, 50, detail.SuccessRate)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	byID := map[string]service.TopicDetail{}
	for _, d := range list {
		byID[d.ID] = d
	}
	assert.Equal(t, 100, byID[strong.ID].SuccessRate)
	assert.Equal(t, 50, byID[weak.ID].SuccessRate)
	assert.Equal(t, 0, byID[empty.ID].SuccessRate, "a topic without cards shows 0%")
	assert.Equal(t, 0, byID[empty.ID].CardCount)
}

func TestTopicServiceDeleteCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	doomed, doomedCards := f.seedTopic(t, "Doomed", 1, 2, 3)
	kept, _ := f.seedTopic(t, "Kept", 0)

	svc, err := service.NewTopicService(f.db, f.topics, f.cards, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, doomed.ID))

	_, err = svc.Get(ctx, doomed.ID)
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
	for _, c := range doomedCards {
		_, err := f.cards.GetByID(ctx, c.ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	}

	n, err := f.cards.CountByTopic(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, svc.Delete(ctx, doomed.ID), store.ErrTopicNotFound)
}
