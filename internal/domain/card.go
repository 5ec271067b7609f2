package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardTopicIDEmpty is returned when a card is not attached to a topic.
	ErrCardTopicIDEmpty = errors.New("card topic ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is blank.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is blank.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")
)

// Card is a question/answer pair with a running integer score.
//
// Score starts at zero and is unbounded in both directions. Only the scoring
// package changes it, in response to study feedback. The JSON layout matches
// the backup file format.
type Card struct {
	ID        string    `json:"id"        yaml:"id"`
	TopicID   string    `json:"topicId"   yaml:"topicId"`
	Question  string    `json:"question"  yaml:"question"`
	Answer    string    `json:"answer"    yaml:"answer"`
	Score     int       `json:"score"     yaml:"score"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewCard creates a new Card for the given topic with a generated ID and a
// zero score. Question and answer are trimmed.
func NewCard(topicID, question, answer string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.NewString(),
		TopicID:   topicID,
		Question:  strings.TrimSpace(question),
		Answer:    strings.TrimSpace(answer),
		Score:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "cannot be empty", ErrCardIDEmpty)
	}
	if strings.TrimSpace(c.TopicID) == "" {
		return NewValidationError("topic_id", "cannot be empty", ErrCardTopicIDEmpty)
	}
	if strings.TrimSpace(c.Question) == "" {
		return NewValidationError("question", "cannot be empty", ErrCardQuestionEmpty)
	}
	if strings.TrimSpace(c.Answer) == "" {
		return NewValidationError("answer", "cannot be empty", ErrCardAnswerEmpty)
	}
	return nil
}

// UpdateContent replaces the question and answer and refreshes UpdatedAt.
// The score is not touched. On invalid input the card is left unchanged.
func (c *Card) UpdateContent(question, answer string) error {
	origQuestion, origAnswer := c.Question, c.Answer

	c.Question = strings.TrimSpace(question)
	c.Answer = strings.TrimSpace(answer)

	if err := c.Validate(); err != nil {
		c.Question, c.Answer = origQuestion, origAnswer
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Normalize fills timestamps on records that come from outside the
// application, such as backup files.
func (c *Card) Normalize(now time.Time) {
	c.Question = strings.TrimSpace(c.Question)
	c.Answer = strings.TrimSpace(c.Answer)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
}
