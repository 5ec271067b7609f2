// Package scoring implements the card score model: how study feedback moves a
// card's running score, and how a topic's scores are summarised as a success
// rate for display.
package scoring

import (
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
)

// SoftScoreCeiling is the per-card score treated as "fully learned" (and its
// negation as "fully missed") when normalising a success rate. Card scores
// themselves are never clamped to it.
const SoftScoreCeiling = 10

// ApplyFeedback returns a copy of card with the feedback's delta added to the
// score and UpdatedAt set to now.
//
// It performs no checks: whether the answer was revealed is the caller's
// concern, and persisting the result is the caller's job.
func ApplyFeedback(card domain.Card, feedback domain.Feedback, now time.Time) domain.Card {
	card.Score += feedback.Delta()
	card.UpdatedAt = now
	return card
}

// SuccessRate summarises a topic's cards as a percentage in [0, 100].
//
// The summed score is placed on the scale [-10n, +10n] for n cards and
// rounded half-up. A topic with no cards has a rate of 0.
func SuccessRate(cards []domain.Card) int {
	if len(cards) == 0 {
		return 0
	}

	total := 0
	for _, c := range cards {
		total += c.Score
	}

	minPossible := -SoftScoreCeiling * len(cards)
	maxPossible := SoftScoreCeiling * len(cards)

	// Integer half-up rounding of (total-min)/(max-min)*100.
	num := (total - minPossible) * 100
	den := maxPossible - minPossible
	if num <= 0 {
		return 0
	}
	rate := (2*num + den) / (2 * den)
	if rate > 100 {
		return 100
	}
	return rate
}
