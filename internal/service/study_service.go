package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/events"
	"github.com/p-devianne/flashmind/internal/platform/logger"
	"github.com/p-devianne/flashmind/internal/store"
)

// SessionState is a snapshot of a study session, safe to hand to callers.
type SessionState struct {
	ID      string
	TopicID string
	Mode    study.Mode
	// Position is the zero-based index of Card within the current pass.
	Position int
	Total    int
	Passes   int
	Flipped  bool
	// Reviewed counts feedback recorded in this session.
	Reviewed int
	Card     domain.Card
}

// FeedbackResult is the outcome of SubmitFeedback.
type FeedbackResult struct {
	// Scored is the card as persisted with its new score.
	Scored domain.Card
	// PassCompleted is true when the feedback finished a pass; the cards
	// have been reordered and the session starts over.
	PassCompleted bool
	State         SessionState
}

// StudyService runs study sessions. Sessions live in memory and are
// addressed by id; every change to one session is serialised. A session
// left untouched for longer than the idle timeout is discarded the next
// time a session starts.
type StudyService interface {
	// Start opens a session over the topic's cards. An empty mode selects the
	// configured default. Returns study.ErrEmptyTopic for a topic without
	// cards and store.ErrTopicNotFound for an unknown topic.
	Start(ctx context.Context, topicID string, mode study.Mode) (SessionState, error)

	// Get returns the session's current state.
	Get(ctx context.Context, sessionID string) (SessionState, error)

	// Flip toggles whether the current answer is revealed.
	Flip(ctx context.Context, sessionID string) (SessionState, error)

	// SubmitFeedback adds the feedback's delta to the stored score of the
	// current card and moves on. The session's copy of the card is replaced
	// by the stored one.
	// Returns study.ErrInvalidFeedback when the answer is hidden and
	// ErrStorageFailure when saving fails; in both cases the session is
	// unchanged. A card deleted since the session started is removed from
	// the session and store.ErrCardNotFound is returned, wrapping
	// study.ErrEmptyTopic when it was the last card and the session has
	// been closed.
	SubmitFeedback(ctx context.Context, sessionID string, feedback domain.Feedback) (FeedbackResult, error)

	// Skip moves to the next card without scoring the current one.
	Skip(ctx context.Context, sessionID string) (SessionState, bool, error)

	// SetMode switches the session's study mode. Changing the mode reorders
	// all cards and restarts the pass; setting the current mode does nothing.
	SetMode(ctx context.Context, sessionID string, mode study.Mode) (SessionState, error)

	// End closes the session and returns its final state.
	End(ctx context.Context, sessionID string) (SessionState, error)
}

// StudyOption customises a StudyService.
type StudyOption func(*studyServiceImpl)

// WithClock replaces time.Now for score timestamps.
func WithClock(now func() time.Time) StudyOption {
	return func(s *studyServiceImpl) { s.now = now }
}

// WithSessionIdleTimeout sets how long a session may go untouched before
// Start discards it. Non-positive values keep the default.
func WithSessionIdleTimeout(d time.Duration) StudyOption {
	return func(s *studyServiceImpl) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithDefaultMode sets the mode used when Start is given none.
func WithDefaultMode(mode study.Mode) StudyOption {
	return func(s *studyServiceImpl) { s.defaultMode = mode }
}

// DefaultSessionIdleTimeout is how long an untouched session is kept.
const DefaultSessionIdleTimeout = 4 * time.Hour

type sessionEntry struct {
	mu       sync.Mutex
	id       string
	session  *study.Session
	reviewed int
	// lastUsed is a UnixNano timestamp, read without mu by the sweeper.
	lastUsed atomic.Int64
}

type studyServiceImpl struct {
	topics      store.TopicStore
	cards       store.CardStore
	scheduler   *study.Scheduler
	emitter     events.EventEmitter
	logger      *slog.Logger
	now         func() time.Time
	defaultMode study.Mode
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewStudyService creates a StudyService.
// A nil emitter discards events.
func NewStudyService(
	topics store.TopicStore,
	cards store.CardStore,
	scheduler *study.Scheduler,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...StudyOption,
) (StudyService, error) {
	if topics == nil {
		return nil, domain.NewValidationError("topics", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if scheduler == nil {
		return nil, domain.NewValidationError("scheduler", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &studyServiceImpl{
		topics:      topics,
		cards:       cards,
		scheduler:   scheduler,
		emitter:     emitter,
		logger:      logger.With(slog.String("component", "study_service")),
		now:         time.Now,
		defaultMode: study.ModeRandom,
		idleTimeout: DefaultSessionIdleTimeout,
		sessions:    make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.defaultMode.Valid() {
		return nil, domain.NewValidationError("defaultMode", "must be random or focus", domain.ErrInvalidStudyMode)
	}
	return s, nil
}

func (s *studyServiceImpl) Start(ctx context.Context, topicID string, mode study.Mode) (SessionState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if mode == "" {
		mode = s.defaultMode
	}
	if !mode.Valid() {
		return SessionState{}, domain.NewValidationError("mode", "must be random or focus", domain.ErrInvalidStudyMode)
	}

	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return SessionState{}, NewServiceError("study", "start", "failed to load topic", err)
	}

	cards, err := s.cards.ListByTopic(ctx, topicID)
	if err != nil {
		return SessionState{}, NewServiceError("study", "start", "failed to load cards", err)
	}

	sess, err := s.scheduler.Start(topicID, cards, mode)
	if err != nil {
		return SessionState{}, err
	}

	s.sweepIdle(ctx)

	entry := &sessionEntry{id: uuid.NewString(), session: sess}
	entry.touch(s.now())
	state := entry.state()

	s.mu.Lock()
	s.sessions[entry.id] = entry
	s.mu.Unlock()

	log.Info("study session started",
		slog.String("session_id", entry.id),
		slog.String("topic_id", topicID),
		slog.String("mode", string(mode)),
		slog.Int("card_count", sess.Len()))
	s.emit(ctx, events.TypeSessionStarted, entry, events.SessionStartedPayload{
		Mode:      string(mode),
		CardCount: state.Total,
	})

	return state, nil
}

func (s *studyServiceImpl) Get(_ context.Context, sessionID string) (SessionState, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return SessionState{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state(), nil
}

func (s *studyServiceImpl) Flip(_ context.Context, sessionID string) (SessionState, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return SessionState{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.session.Flip()
	return entry.state(), nil
}

func (s *studyServiceImpl) SubmitFeedback(
	ctx context.Context,
	sessionID string,
	feedback domain.Feedback,
) (FeedbackResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !feedback.Valid() {
		return FeedbackResult{}, domain.NewValidationError("feedback", "must be miss, not_yet or good", domain.ErrInvalidFeedback)
	}

	entry, err := s.lookup(sessionID)
	if err != nil {
		return FeedbackResult{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Grade only checks that the answer is showing; the score itself is
	// applied to the stored card.
	now := s.now().UTC()
	current, err := s.scheduler.Grade(entry.session, feedback, now)
	if err != nil {
		return FeedbackResult{}, err
	}

	stored, err := s.cards.AddScore(ctx, current.ID, feedback.Delta(), now)
	if errors.Is(err, store.ErrCardNotFound) {
		return FeedbackResult{}, s.dropMissing(ctx, entry, current.ID)
	}
	if err != nil {
		log.Error("failed to save card score",
			slog.String("session_id", sessionID),
			slog.String("card_id", current.ID),
			slog.String("error", err.Error()))
		return FeedbackResult{}, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	scored := *stored

	passCompleted := s.scheduler.Record(entry.session, scored)
	entry.reviewed++

	log.Debug("card scored",
		slog.String("session_id", sessionID),
		slog.String("card_id", scored.ID),
		slog.String("feedback", string(feedback)),
		slog.Int("score", scored.Score))
	s.emit(ctx, events.TypeCardScored, entry, events.CardScoredPayload{
		CardID:   scored.ID,
		Feedback: string(feedback),
		Score:    scored.Score,
	})
	if passCompleted {
		s.passCompleted(ctx, entry)
	}

	return FeedbackResult{
		Scored:        scored,
		PassCompleted: passCompleted,
		State:         entry.state(),
	}, nil
}

// dropMissing removes a card deleted since the session started and reports
// it as not found. A session left without cards is closed.
// It must be called with entry.mu held.
func (s *studyServiceImpl) dropMissing(ctx context.Context, entry *sessionEntry, cardID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Warn("card deleted during study session",
		slog.String("session_id", entry.id),
		slog.String("card_id", cardID))

	passCompleted, err := s.scheduler.Drop(entry.session)
	if err != nil {
		s.mu.Lock()
		delete(s.sessions, entry.id)
		s.mu.Unlock()
		log.Info("study session closed, no cards left", slog.String("session_id", entry.id))
		s.emit(ctx, events.TypeSessionEnded, entry, events.SessionEndedPayload{
			Passes:   entry.session.Passes,
			Reviewed: entry.reviewed,
		})
		return fmt.Errorf("%w: %w", store.ErrCardNotFound, err)
	}
	if passCompleted {
		s.passCompleted(ctx, entry)
	}
	return store.ErrCardNotFound
}

func (s *studyServiceImpl) Skip(ctx context.Context, sessionID string) (SessionState, bool, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return SessionState{}, false, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	passCompleted := s.scheduler.Advance(entry.session)
	if passCompleted {
		s.passCompleted(ctx, entry)
	}
	return entry.state(), passCompleted, nil
}

func (s *studyServiceImpl) SetMode(ctx context.Context, sessionID string, mode study.Mode) (SessionState, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return SessionState{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	from := entry.session.Mode
	if err := s.scheduler.SetMode(entry.session, mode); err != nil {
		return SessionState{}, err
	}

	if from != mode {
		logger.FromContextOrDefault(ctx, s.logger).Info("study mode changed",
			slog.String("session_id", sessionID),
			slog.String("from", string(from)),
			slog.String("to", string(mode)))
		s.emit(ctx, events.TypeSessionModeChanged, entry, events.ModeChangedPayload{
			From: string(from),
			To:   string(mode),
		})
	}
	return entry.state(), nil
}

func (s *studyServiceImpl) End(ctx context.Context, sessionID string) (SessionState, error) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return SessionState{}, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("study session ended",
		slog.String("session_id", sessionID),
		slog.Int("passes", entry.session.Passes),
		slog.Int("reviewed", entry.reviewed))
	s.emit(ctx, events.TypeSessionEnded, entry, events.SessionEndedPayload{
		Passes:   entry.session.Passes,
		Reviewed: entry.reviewed,
	})
	return entry.state(), nil
}

func (s *studyServiceImpl) lookup(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.touch(s.now())
	return entry, nil
}

// sweepIdle discards sessions untouched for longer than the idle timeout.
// Each one is reported as ended.
func (s *studyServiceImpl) sweepIdle(ctx context.Context) {
	cutoff := s.now().Add(-s.idleTimeout).UnixNano()

	var expired []*sessionEntry
	s.mu.Lock()
	for id, entry := range s.sessions {
		if entry.lastUsed.Load() < cutoff {
			expired = append(expired, entry)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, entry := range expired {
		entry.mu.Lock()
		logger.FromContextOrDefault(ctx, s.logger).Info("idle study session discarded",
			slog.String("session_id", entry.id),
			slog.Int("reviewed", entry.reviewed))
		s.emit(ctx, events.TypeSessionEnded, entry, events.SessionEndedPayload{
			Passes:   entry.session.Passes,
			Reviewed: entry.reviewed,
		})
		entry.mu.Unlock()
	}
}

func (s *studyServiceImpl) passCompleted(ctx context.Context, entry *sessionEntry) {
	logger.FromContextOrDefault(ctx, s.logger).Info("session complete, starting over",
		slog.String("session_id", entry.id),
		slog.Int("passes", entry.session.Passes))
	s.emit(ctx, events.TypeSessionPassCompleted, entry, events.PassCompletedPayload{
		Mode:   string(entry.session.Mode),
		Passes: entry.session.Passes,
	})
}

// emit publishes an event. Failures are logged and never fail the caller.
func (s *studyServiceImpl) emit(ctx context.Context, eventType string, entry *sessionEntry, payload any) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(eventType, entry.id, entry.session.TopicID, payload)
	if err != nil {
		log.Error("failed to build event", slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("event handler failed", slog.String("event_type", eventType), slog.String("error", err.Error()))
	}
}

func (e *sessionEntry) touch(t time.Time) {
	e.lastUsed.Store(t.UnixNano())
}

// state must be called with entry.mu held.
func (e *sessionEntry) state() SessionState {
	return SessionState{
		ID:       e.id,
		TopicID:  e.session.TopicID,
		Mode:     e.session.Mode,
		Position: e.session.Cursor,
		Total:    e.session.Len(),
		Passes:   e.session.Passes,
		Flipped:  e.session.Flipped,
		Reviewed: e.reviewed,
		Card:     e.session.Current(),
	}
}
