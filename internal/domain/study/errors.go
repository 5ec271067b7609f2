package study

import "errors"

var (
	// ErrEmptyTopic is returned when a session is requested for a topic
	// without cards.
	ErrEmptyTopic = errors.New("topic has no cards to study")

	// ErrInvalidFeedback is returned when feedback is submitted before the
	// card's answer has been revealed.
	ErrInvalidFeedback = errors.New("feedback requires the answer to be revealed")
)
