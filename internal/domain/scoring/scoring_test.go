package scoring

import (
	"testing"
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestApplyFeedback(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name     string
		score    int
		feedback domain.Feedback
		expected int
	}{
		{"good from zero", 0, domain.FeedbackGood, 1},
		{"miss from one", 1, domain.FeedbackMiss, 0},
		{"not yet leaves score", -3, domain.FeedbackNotYet, -3},
		{"miss below zero is not clamped", -10, domain.FeedbackMiss, -11},
		{"good above soft ceiling is not clamped", 10, domain.FeedbackGood, 11},
		{"unknown feedback is harmless", 2, domain.Feedback("meh"), 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			original := domain.Card{ID: "c1", TopicID: "t1", Score: tc.score}

			updated := ApplyFeedback(original, tc.feedback, now)

			assert.Equal(t, tc.expected, updated.Score)
			assert.Equal(t, now, updated.UpdatedAt)
			assert.Equal(t, tc.score, original.Score, "input card must not be modified")
		})
	}
}

func TestSuccessRate(t *testing.T) {
	t.Parallel()

	cards := func(scores ...int) []domain.Card {
		out := make([]domain.Card, len(scores))
		for i, s := range scores {
			out[i] = domain.Card{Score: s}
		}
		return out
	}

	testCases := []struct {
		name     string
		cards    []domain.Card
		expected int
	}{
		{"empty topic", nil, 0},
		{"balanced extremes", cards(10, -10), 50},
		{"all at ceiling", cards(10, 10), 100},
		{"beyond ceiling is clamped", cards(25, 30), 100},
		{"beyond floor is clamped", cards(-25, -30), 0},
		{"fresh cards", cards(0, 0, 0), 50},
		{"single good answer", cards(1), 55},
		{"rounds half up", cards(1, 0), 53},
		{"rounds down below half", cards(1, 0, 0, 0), 51},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SuccessRate(tc.cards))
		})
	}
}
