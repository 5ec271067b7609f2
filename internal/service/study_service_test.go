package service_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/events"
	"github.com/p-devianne/flashmind/internal/service"
	"github.com/p-devianne/flashmind/internal/store"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newStudyService(t *testing.T, f fixture, cards store.CardStore, emitter events.EventEmitter) service.StudyService {
	t.Helper()

	scheduler := study.NewScheduler(rand.New(rand.NewPCG(7, 11)))
	svc, err := service.NewStudyService(f.topics, cards, scheduler, emitter, nil,
		service.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return svc
}

func TestStudyServiceStartErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := newStudyService(t, f, f.cards, nil)

	empty, _ := f.seedTopic(t, "Empty")
	_, err := svc.Start(ctx, empty.ID, study.ModeRandom)
	assert.ErrorIs(t, err, study.ErrEmptyTopic)

	_, err = svc.Start(ctx, "missing", study.ModeRandom)
	assert.ErrorIs(t, err, store.ErrTopicNotFound)

	topic, _ := f.seedTopic(t, "Cards", 0)
	_, err = svc.Start(ctx, topic.ID, study.Mode("alphabetical"))
	assert.ErrorIs(t, err, domain.ErrInvalidStudyMode)

	_, err = svc.Get(ctx, "no-such-session")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestStudyServiceDefaultMode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", 0, 1)

	svc, err := service.NewStudyService(f.topics, f.cards, study.NewScheduler(nil), nil, nil,
		service.WithDefaultMode(study.ModeFocus))
	require.NoError(t, err)

	state, err := svc.Start(ctx, topic.ID, "")
	require.NoError(t, err)
	assert.Equal(t, study.ModeFocus, state.Mode)

	_, err = service.NewStudyService(f.topics, f.cards, study.NewScheduler(nil), nil, nil,
		service.WithDefaultMode("sorted"))
	assert.ErrorIs(t, err, domain.ErrInvalidStudyMode)
}

func TestStudyServiceFeedbackFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", 0, 0, 0)
	log := &eventLog{}
	svc := newStudyService(t, f, f.cards, log)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Total)
	assert.Zero(t, state.Position)
	assert.False(t, state.Flipped)

	_, err = svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	assert.ErrorIs(t, err, study.ErrInvalidFeedback, "feedback needs the answer revealed")

	_, err = svc.SubmitFeedback(ctx, state.ID, domain.Feedback("meh"))
	assert.ErrorIs(t, err, domain.ErrInvalidFeedback)

	firstCard := state.Card.ID
	state, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, state.Flipped)
	assert.Equal(t, firstCard, state.Card.ID, "flip does not move")

	result, err := svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	require.NoError(t, err)
	assert.Equal(t, firstCard, result.Scored.ID)
	assert.Equal(t, 1, result.Scored.Score)
	assert.True(t, fixedNow.Equal(result.Scored.UpdatedAt))
	assert.False(t, result.PassCompleted)
	assert.Equal(t, 1, result.State.Position)
	assert.False(t, result.State.Flipped)
	assert.Equal(t, 1, result.State.Reviewed)

	persisted, err := f.cards.GetByID(ctx, firstCard)
	require.NoError(t, err)
	assert.Equal(t, 1, persisted.Score)

	for _, fb := range []domain.Feedback{domain.FeedbackMiss, domain.FeedbackNotYet} {
		_, err := svc.Flip(ctx, state.ID)
		require.NoError(t, err)
		result, err = svc.SubmitFeedback(ctx, state.ID, fb)
		require.NoError(t, err)
	}
	assert.True(t, result.PassCompleted)
	assert.Zero(t, result.State.Position)
	assert.Equal(t, 1, result.State.Passes)

	final, err := svc.End(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, final.Reviewed)

	_, err = svc.Get(ctx, state.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = svc.End(ctx, state.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	assert.Equal(t, []string{
		events.TypeSessionStarted,
		events.TypeCardScored,
		events.TypeCardScored,
		events.TypeCardScored,
		events.TypeSessionPassCompleted,
		events.TypeSessionEnded,
	}, log.types())
}

func TestStudyServiceStorageFailureKeepsCursor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", 0, 0)

	cards := &mockCardStore{CardStore: f.cards}
	diskFull := errors.New("disk full")
	cards.On("AddScore", mock.Anything, mock.Anything, 1, mock.Anything).Return(diskFull).Once()
	cards.On("AddScore", mock.Anything, mock.Anything, 1, mock.Anything).Return(nil).Once()

	svc := newStudyService(t, f, cards, nil)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)
	_, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	assert.ErrorIs(t, err, service.ErrStorageFailure)
	assert.ErrorIs(t, err, diskFull)

	after, err := svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Zero(t, after.Position, "cursor does not advance on a failed save")
	assert.True(t, after.Flipped)
	assert.Zero(t, after.Card.Score, "in-memory score is untouched")
	assert.Zero(t, after.Reviewed)

	result, err := svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	require.NoError(t, err, "retry succeeds")
	assert.Equal(t, 1, result.Scored.Score)
	assert.Equal(t, 1, result.State.Position)

	cards.AssertExpectations(t)
}

func TestStudyServiceSkipAndSetMode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", -2, 0, 3)
	log := &eventLog{}
	svc := newStudyService(t, f, f.cards, log)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)

	state, wrapped, err := svc.Skip(ctx, state.ID)
	require.NoError(t, err)
	assert.False(t, wrapped)
	assert.Equal(t, 1, state.Position)

	state, err = svc.SetMode(ctx, state.ID, study.ModeRandom)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position, "same mode is a no-op")

	_, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)
	state, err = svc.SetMode(ctx, state.ID, study.ModeFocus)
	require.NoError(t, err)
	assert.Equal(t, study.ModeFocus, state.Mode)
	assert.Zero(t, state.Position)
	assert.False(t, state.Flipped)

	_, err = svc.SetMode(ctx, state.ID, study.Mode("backwards"))
	assert.ErrorIs(t, err, domain.ErrInvalidStudyMode)

	for range 2 {
		_, _, err = svc.Skip(ctx, state.ID)
		require.NoError(t, err)
	}
	_, wrapped, err = svc.Skip(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, wrapped)

	assert.Equal(t, []string{
		events.TypeSessionStarted,
		events.TypeSessionModeChanged,
		events.TypeSessionPassCompleted,
	}, log.types())

	_, _, err = svc.Skip(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestStudyServiceConcurrentFeedback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, cards := f.seedTopic(t, "Cards", 0, 0, 0, 0)
	svc := newStudyService(t, f, f.cards, nil)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)

	// Each worker flips and grades under contention. Some submissions hit a
	// face-down card and are rejected; the rest must each score exactly once.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if _, err := svc.Flip(ctx, state.ID); err != nil {
					return
				}
				if _, err := svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood); err == nil {
					mu.Lock()
					applied++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, c := range cards {
		stored, err := f.cards.GetByID(ctx, c.ID)
		require.NoError(t, err)
		total += stored.Score
	}
	assert.Equal(t, applied, total)

	final, err := svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, applied, final.Reviewed)
}

func TestStudyServiceFeedbackKeepsConcurrentEdits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", 2, 2)
	cardSvc, err := service.NewCardService(f.topics, f.cards, nil)
	require.NoError(t, err)
	svc := newStudyService(t, f, f.cards, nil)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)
	id := state.Card.ID

	// Edited text and a score change made outside the session.
	_, err = cardSvc.Update(ctx, id, "edited q", "edited a")
	require.NoError(t, err)
	_, err = f.cards.AddScore(ctx, id, 3, fixedNow)
	require.NoError(t, err)

	_, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)
	result, err := svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	require.NoError(t, err)

	stored, err := f.cards.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "edited q", stored.Question, "feedback must not revert an edit")
	assert.Equal(t, "edited a", stored.Answer)
	assert.Equal(t, 6, stored.Score, "delta applies to the stored score")
	assert.Equal(t, *stored, result.Scored)
}

func TestStudyServiceFeedbackOnDeletedCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", 0, 0, 0)
	cardSvc, err := service.NewCardService(f.topics, f.cards, nil)
	require.NoError(t, err)
	log := &eventLog{}
	svc := newStudyService(t, f, f.cards, log)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)
	deleted := state.Card.ID
	require.NoError(t, cardSvc.Delete(ctx, deleted))

	_, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(ctx, state.ID, domain.FeedbackMiss)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.NotErrorIs(t, err, study.ErrEmptyTopic)

	_, err = f.cards.GetByID(ctx, deleted)
	assert.ErrorIs(t, err, store.ErrCardNotFound, "a deleted card stays deleted")
	n, err := f.cards.CountByTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after, err := svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Total)
	assert.Zero(t, after.Position)
	assert.False(t, after.Flipped)
	assert.NotEqual(t, deleted, after.Card.ID)
	assert.Zero(t, after.Reviewed)

	_, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)
	result, err := svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	require.NoError(t, err, "the session carries on with the remaining cards")
	assert.Equal(t, 1, result.Scored.Score)

	assert.Equal(t, []string{
		events.TypeSessionStarted,
		events.TypeCardScored,
	}, log.types(), "the deleted card is never reported as scored")
}

func TestStudyServiceLastCardDeletedClosesSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, cards := f.seedTopic(t, "Cards", 0)
	log := &eventLog{}
	svc := newStudyService(t, f, f.cards, log)

	state, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)
	require.NoError(t, f.cards.Delete(ctx, cards[0].ID))

	_, err = svc.Flip(ctx, state.ID)
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(ctx, state.ID, domain.FeedbackGood)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.ErrorIs(t, err, study.ErrEmptyTopic)

	_, err = svc.Get(ctx, state.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	n, err := f.cards.CountByTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{
		events.TypeSessionStarted,
		events.TypeSessionEnded,
	}, log.types())
}

func TestStudyServiceDiscardsIdleSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	topic, _ := f.seedTopic(t, "Cards", 0, 0)
	log := &eventLog{}

	var (
		clockMu sync.Mutex
		clock   = fixedNow
	)
	now := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}
	advance := func(d time.Duration) {
		clockMu.Lock()
		defer clockMu.Unlock()
		clock = clock.Add(d)
	}

	svc, err := service.NewStudyService(f.topics, f.cards, study.NewScheduler(nil), log, nil,
		service.WithClock(now),
		service.WithSessionIdleTimeout(time.Hour))
	require.NoError(t, err)

	idle, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)
	active, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)

	advance(45 * time.Minute)
	_, err = svc.Flip(ctx, active.ID)
	require.NoError(t, err)

	advance(30 * time.Minute)
	fresh, err := svc.Start(ctx, topic.ID, study.ModeRandom)
	require.NoError(t, err)

	_, err = svc.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound, "untouched for 75 minutes")
	_, err = svc.Get(ctx, active.ID)
	assert.NoError(t, err, "touched 30 minutes ago")
	_, err = svc.Get(ctx, fresh.ID)
	assert.NoError(t, err)

	assert.Equal(t, []string{
		events.TypeSessionStarted,
		events.TypeSessionStarted,
		events.TypeSessionEnded,
		events.TypeSessionStarted,
	}, log.types())
}
