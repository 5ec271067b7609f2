package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/service"
	"github.com/p-devianne/flashmind/internal/store"
)

const studyHelp = `Commands: Enter/f flip, m miss, n not yet, g good, k skip, s switch mode, q quit`

func newStudyCommand(e *env) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "study <topic-id>",
		Short: "Study a topic interactively",
		Long: `Study a topic one card at a time.

` + studyHelp + `

Random mode shuffles the cards each pass. Focus mode puts low-scoring cards
first more often.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m study.Mode
			if mode != "" {
				parsed, err := study.ParseMode(mode)
				if err != nil {
					return err
				}
				m = parsed
			}

			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			return e.studyLoop(cmd.Context(), a.StudyService, args[0], m)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "study mode: random or focus (default from config)")
	return cmd
}

func (e *env) studyLoop(ctx context.Context, svc service.StudyService, topicID string, mode study.Mode) error {
	state, err := svc.Start(ctx, topicID, mode)
	if errors.Is(err, study.ErrEmptyTopic) {
		e.println("Add some flashcards first!")
		return nil
	}
	if err != nil {
		return err
	}

	e.println(studyHelp)
	e.showCard(state)

	scanner := bufio.NewScanner(e.in)
	for {
		e.printf("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "", "f":
			state, err = svc.Flip(ctx, state.ID)
			if err != nil {
				return err
			}
			e.showCard(state)

		case "m", "n", "g":
			state, err = e.feedback(ctx, svc, state, map[string]domain.Feedback{
				"m": domain.FeedbackMiss,
				"n": domain.FeedbackNotYet,
				"g": domain.FeedbackGood,
			}[input])
			if errors.Is(err, errSessionClosed) {
				return nil
			}
			if err != nil {
				return err
			}

		case "k":
			var passCompleted bool
			state, passCompleted, err = svc.Skip(ctx, state.ID)
			if err != nil {
				return err
			}
			if passCompleted {
				e.println("Session complete! Starting over...")
			}
			e.showCard(state)

		case "s":
			state, err = svc.SetMode(ctx, state.ID, state.Mode.Toggle())
			if err != nil {
				return err
			}
			e.printf("Switched to %s mode.\n", state.Mode)
			e.showCard(state)

		case "q":
			return e.endSession(ctx, svc, state.ID)

		default:
			e.println(studyHelp)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return e.endSession(ctx, svc, state.ID)
}

// errSessionClosed ends the study loop after the service closed the session.
var errSessionClosed = errors.New("study session closed")

func (e *env) feedback(
	ctx context.Context,
	svc service.StudyService,
	state service.SessionState,
	fb domain.Feedback,
) (service.SessionState, error) {
	result, err := svc.SubmitFeedback(ctx, state.ID, fb)
	switch {
	case errors.Is(err, study.ErrInvalidFeedback):
		e.println("Flip the card first!")
		return state, nil
	case errors.Is(err, service.ErrStorageFailure):
		e.println("Could not save the score, try again.")
		return state, nil
	case errors.Is(err, study.ErrEmptyTopic):
		e.println("That card was deleted. Add some flashcards first!")
		return state, errSessionClosed
	case errors.Is(err, store.ErrCardNotFound):
		e.println("That card was deleted, moving on.")
		next, err := svc.Get(ctx, state.ID)
		if err != nil {
			return state, err
		}
		e.showCard(next)
		return next, nil
	case err != nil:
		return state, err
	}

	e.printf("Score: %+d\n", result.Scored.Score)
	if result.PassCompleted {
		e.println("Session complete! Starting over...")
	}
	e.showCard(result.State)
	return result.State, nil
}

func (e *env) showCard(s service.SessionState) {
	e.printf("\n[%d/%d] %s mode, pass %d\n", s.Position+1, s.Total, s.Mode, s.Passes+1)
	e.printf("Q: %s\n", s.Card.Question)
	if s.Flipped {
		e.printf("A: %s\n", s.Card.Answer)
	}
}

func (e *env) endSession(ctx context.Context, svc service.StudyService, id string) error {
	final, err := svc.End(ctx, id)
	if err != nil {
		return err
	}
	e.printf("Reviewed %d cards over %d full passes.\n", final.Reviewed, final.Passes)
	return nil
}
