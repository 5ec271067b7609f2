package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTopicEmoji is used when a topic is saved without an emoji.
const DefaultTopicEmoji = "📚"

// Topic-specific validation errors
var (
	// ErrTopicIDEmpty is returned when a topic ID is empty.
	ErrTopicIDEmpty = errors.New("topic ID cannot be empty")

	// ErrTopicNameEmpty is returned when a topic name is blank.
	ErrTopicNameEmpty = errors.New("topic name cannot be empty")
)

// Topic is a named collection of flashcards.
// The JSON layout matches the backup file format.
type Topic struct {
	ID        string    `json:"id"        yaml:"id"`
	Name      string    `json:"name"      yaml:"name"`
	Emoji     string    `json:"emoji"     yaml:"emoji"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewTopic creates a new Topic with a generated ID.
// Name and emoji are trimmed; a blank emoji becomes DefaultTopicEmoji.
func NewTopic(name, emoji string) (*Topic, error) {
	now := time.Now().UTC()
	topic := &Topic{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Emoji:     normalizeEmoji(emoji),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	return topic, nil
}

// Validate checks if the Topic has valid data.
func (t *Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return NewValidationError("id", "cannot be empty", ErrTopicIDEmpty)
	}
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "cannot be empty", ErrTopicNameEmpty)
	}
	return nil
}

// Rename updates the topic's name and emoji and refreshes UpdatedAt.
// The topic is left unchanged when the new values are invalid.
func (t *Topic) Rename(name, emoji string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name", "cannot be empty", ErrTopicNameEmpty)
	}

	t.Name = name
	t.Emoji = normalizeEmoji(emoji)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Normalize fills defaults on records that come from outside the
// application, such as backup files.
func (t *Topic) Normalize(now time.Time) {
	t.Name = strings.TrimSpace(t.Name)
	t.Emoji = normalizeEmoji(t.Emoji)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
}

func normalizeEmoji(emoji string) string {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return DefaultTopicEmoji
	}
	return emoji
}
