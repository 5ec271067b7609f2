package domain

import "strings"

// Feedback is the outcome a learner reports after revealing a card's answer.
type Feedback string

// Possible feedback values
const (
	FeedbackMiss   Feedback = "miss"
	FeedbackNotYet Feedback = "not_yet"
	FeedbackGood   Feedback = "good"
)

// Delta returns the score change for the feedback: -1, 0 or +1.
// Unknown values carry no change.
func (f Feedback) Delta() int {
	switch f {
	case FeedbackMiss:
		return -1
	case FeedbackGood:
		return 1
	default:
		return 0
	}
}

// Valid reports whether f is one of the known feedback values.
func (f Feedback) Valid() bool {
	switch f {
	case FeedbackMiss, FeedbackNotYet, FeedbackGood:
		return true
	default:
		return false
	}
}

// ParseFeedback converts user input into a Feedback.
// It accepts the canonical values plus "not-yet" and "notyet".
func ParseFeedback(s string) (Feedback, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "not-yet", "notyet":
		normalized = string(FeedbackNotYet)
	}

	f := Feedback(normalized)
	if !f.Valid() {
		return "", NewValidationError("feedback", "must be one of miss, not_yet, good", ErrInvalidFeedback)
	}
	return f, nil
}
