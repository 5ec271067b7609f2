package study

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/p-devianne/flashmind/internal/domain"
)

// Focus-mode weighting: w = FocusWeightBase ^ ((max-score)/range * FocusWeightSpread).
// The values are an empirical tuning choice and are kept as-is.
const (
	FocusWeightBase   = 2.0
	FocusWeightSpread = 3.0
)

// RandomSource yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it. It need not be safe for
// concurrent use; the Scheduler serialises its draws.
type RandomSource interface {
	Float64() float64
}

// globalSource adapts the process-wide math/rand/v2 generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Scheduler orders cards and advances sessions.
// It holds no session state and may be shared between goroutines.
type Scheduler struct {
	mu  sync.Mutex
	rng RandomSource
}

// NewScheduler creates a Scheduler drawing from rng.
// A nil rng uses the process-wide generator.
func NewScheduler(rng RandomSource) *Scheduler {
	if rng == nil {
		rng = globalSource{}
	}
	return &Scheduler{rng: rng}
}

// BuildOrder returns a new ordering of cards for the given mode.
// The input slice is not modified.
func (s *Scheduler) BuildOrder(cards []domain.Card, mode Mode) ([]domain.Card, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyTopic
	}

	switch mode {
	case ModeRandom:
		return s.Shuffle(cards), nil
	case ModeFocus:
		return s.WeightedShuffle(cards), nil
	default:
		return nil, domain.NewValidationError("mode", "must be random or focus", domain.ErrInvalidStudyMode)
	}
}

// Shuffle returns a uniformly random permutation of cards using the
// Fisher–Yates algorithm.
func (s *Scheduler) Shuffle(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	copy(out, cards)

	for i := len(out) - 1; i > 0; i-- {
		j := s.index(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// WeightedShuffle returns a permutation of cards drawn one at a time with
// probability proportional to each remaining card's focus weight, so
// low-scoring cards tend to come first. Equal scores give equal weights.
//
// Selection is a linear scan per draw, which is fine for decks of a few
// hundred cards.
func (s *Scheduler) WeightedShuffle(cards []domain.Card) []domain.Card {
	if len(cards) == 0 {
		return []domain.Card{}
	}

	weights := FocusWeights(cards)

	remaining := make([]int, len(cards))
	for i := range remaining {
		remaining[i] = i
	}

	out := make([]domain.Card, 0, len(cards))
	for len(remaining) > 0 {
		total := 0.0
		for _, idx := range remaining {
			total += weights[idx]
		}

		draw := s.next() * total

		// Floating-point drift can leave draw at or above the running sum on
		// the last element; it is the one picked in that case.
		pick := len(remaining) - 1
		cumulative := 0.0
		for pos, idx := range remaining {
			cumulative += weights[idx]
			if cumulative > draw {
				pick = pos
				break
			}
		}

		out = append(out, cards[remaining[pick]])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return out
}

// FocusWeights returns the focus-mode weight of each card, index-aligned with
// cards. The lowest score gets 8, the highest 1.
func FocusWeights(cards []domain.Card) []float64 {
	if len(cards) == 0 {
		return nil
	}

	minScore, maxScore := cards[0].Score, cards[0].Score
	for _, c := range cards[1:] {
		minScore = min(minScore, c.Score)
		maxScore = max(maxScore, c.Score)
	}

	scoreRange := float64(maxScore - minScore)
	if scoreRange == 0 {
		scoreRange = 1
	}

	weights := make([]float64, len(cards))
	for i, c := range cards {
		weights[i] = math.Pow(FocusWeightBase, float64(maxScore-c.Score)/scoreRange*FocusWeightSpread)
	}
	return weights
}

func (s *Scheduler) next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// index draws a uniform integer in [0, n).
func (s *Scheduler) index(n int) int {
	j := int(s.next() * float64(n))
	if j >= n {
		j = n - 1
	}
	return j
}
