package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-devianne/flashmind/internal/platform/logger"
)

// recordingHandler remembers the events it sees.
type recordingHandler struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)
		event, err := NewEvent(TypeSessionEnded, "s1", "t1", nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("every handler sees the event", func(t *testing.T) {
		t.Parallel()
		log, _ := logger.NewTestLogger()
		emitter := NewInMemoryEventEmitter(log)

		first, second := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := NewEvent(TypeCardScored, "s1", "t1", CardScoredPayload{CardID: "c1", Feedback: "good", Score: 2})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		require.Len(t, first.events, 1)
		require.Len(t, second.events, 1)
		assert.Same(t, event, first.events[0])
	})

	t.Run("first error is returned", func(t *testing.T) {
		t.Parallel()
		log, buf := logger.NewTestLogger()
		emitter := NewInMemoryEventEmitter(log)

		errA, errB := errors.New("a"), errors.New("b")
		failingA := &recordingHandler{err: errA}
		failingB := &recordingHandler{err: errB}
		emitter.RegisterHandler(failingA)
		emitter.RegisterHandler(failingB)

		event, err := NewEvent(TypeSessionStarted, "s1", "t1", SessionStartedPayload{Mode: "focus", CardCount: 3})
		require.NoError(t, err)

		assert.ErrorIs(t, emitter.EmitEvent(context.Background(), event), errA)
		assert.Len(t, failingB.events, 1)
		assert.True(t, buf.Contains("handler failed to process event"))
	})
}

func TestEventPayload(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeSessionModeChanged, "s1", "t1", ModeChangedPayload{From: "random", To: "focus"})
	require.NoError(t, err)

	var p ModeChangedPayload
	require.NoError(t, event.UnmarshalPayload(&p))
	assert.Equal(t, "focus", p.To)
	assert.NotEqual(t, [16]byte{}, [16]byte(event.ID))

	_, err = NewEvent(TypeCardScored, "s1", "t1", make(chan int))
	assert.Error(t, err)

	var calls int
	h := HandlerFunc(func(context.Context, *Event) error { calls++; return nil })
	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Equal(t, 1, calls)

	assert.NoError(t, NopEmitter{}.EmitEvent(context.Background(), event))
}
