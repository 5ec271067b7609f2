package study

import (
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/scoring"
)

// Session is the transient state of one study run over one topic.
//
// Cards is a snapshot taken when the session starts; cards added afterwards
// are not seen until the next session, and cards removed afterwards leave it
// through Drop. Cursor stays within [0, len(Cards)) while Cards is non-empty.
type Session struct {
	TopicID string
	Cards   []domain.Card
	Cursor  int
	Mode    Mode
	Flipped bool
	// Passes counts completed traversals of Cards.
	Passes int
}

// Current returns the card under the cursor.
func (s *Session) Current() domain.Card {
	return s.Cards[s.Cursor]
}

// Flip toggles whether the current card's answer is revealed.
func (s *Session) Flip() {
	s.Flipped = !s.Flipped
}

// Len returns the number of cards in the pass.
func (s *Session) Len() int {
	return len(s.Cards)
}

// Start creates a session for the topic's cards, ordered for mode.
// It fails with ErrEmptyTopic when there are no cards.
func (s *Scheduler) Start(topicID string, cards []domain.Card, mode Mode) (*Session, error) {
	ordered, err := s.BuildOrder(cards, mode)
	if err != nil {
		return nil, err
	}

	return &Session{
		TopicID: topicID,
		Cards:   ordered,
		Mode:    mode,
	}, nil
}

// Grade scores the current card with feedback and returns the updated card.
// The session is not modified, so a caller that fails to persist the result
// can simply grade again. It fails with ErrInvalidFeedback until the answer
// has been revealed.
func (s *Scheduler) Grade(sess *Session, feedback domain.Feedback, now time.Time) (domain.Card, error) {
	if !sess.Flipped {
		return domain.Card{}, ErrInvalidFeedback
	}
	return scoring.ApplyFeedback(sess.Current(), feedback, now), nil
}

// Record stores a graded card at the cursor and moves to the next card.
// It reports whether that completed a pass.
func (s *Scheduler) Record(sess *Session, graded domain.Card) bool {
	sess.Cards[sess.Cursor] = graded
	return s.Advance(sess)
}

// SubmitFeedback grades the current card and records the result.
// Callers that persist cards should use Grade and Record separately.
func (s *Scheduler) SubmitFeedback(sess *Session, feedback domain.Feedback, now time.Time) (domain.Card, bool, error) {
	graded, err := s.Grade(sess, feedback, now)
	if err != nil {
		return domain.Card{}, false, err
	}
	return graded, s.Record(sess, graded), nil
}

// Advance moves the cursor to the next card and hides its answer.
//
// Moving past the last card completes the pass: the cursor returns to 0 and
// the whole snapshot is reordered under the session's mode, using the scores
// recorded during the pass. Advance reports whether a pass completed.
func (s *Scheduler) Advance(sess *Session) bool {
	sess.Flipped = false
	sess.Cursor++

	if sess.Cursor < len(sess.Cards) {
		return false
	}

	sess.Cursor = 0
	sess.Passes++
	s.reorder(sess)
	return true
}

// Drop removes the current card from the session, for a card that no longer
// exists. The next card moves under the cursor with its answer hidden;
// dropping the last card of a pass completes it, as Advance does. It returns
// ErrEmptyTopic when no cards remain, after which the session is unusable.
func (s *Scheduler) Drop(sess *Session) (bool, error) {
	sess.Cards = append(sess.Cards[:sess.Cursor], sess.Cards[sess.Cursor+1:]...)
	sess.Flipped = false

	if len(sess.Cards) == 0 {
		sess.Cursor = 0
		return false, ErrEmptyTopic
	}
	if sess.Cursor < len(sess.Cards) {
		return false, nil
	}

	sess.Cursor = 0
	sess.Passes++
	s.reorder(sess)
	return true, nil
}

// SetMode switches the session to mode, reordering all cards under it and
// restarting the pass. Setting the current mode changes nothing.
func (s *Scheduler) SetMode(sess *Session, mode Mode) error {
	if !mode.Valid() {
		return domain.NewValidationError("mode", "must be random or focus", domain.ErrInvalidStudyMode)
	}
	if mode == sess.Mode {
		return nil
	}

	sess.Mode = mode
	sess.Cursor = 0
	sess.Flipped = false
	s.reorder(sess)
	return nil
}

func (s *Scheduler) reorder(sess *Session) {
	// The snapshot is never empty and the mode is always valid here.
	ordered, err := s.BuildOrder(sess.Cards, sess.Mode)
	if err != nil {
		return
	}
	sess.Cards = ordered
}
