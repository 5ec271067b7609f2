package study

import (
	"strings"

	"github.com/p-devianne/flashmind/internal/domain"
)

// Mode selects how a session orders its cards.
type Mode string

// Study modes
const (
	ModeRandom Mode = "random"
	ModeFocus  Mode = "focus"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeRandom || m == ModeFocus
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeFocus {
		return ModeRandom
	}
	return ModeFocus
}

// ParseMode converts user input into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", domain.NewValidationError("mode", "must be random or focus", domain.ErrInvalidStudyMode)
	}
	return m, nil
}
