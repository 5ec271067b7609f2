package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCardCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage flashcards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <topic-id>",
		Short: "List a topic's cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			cards, err := a.CardService.ListByTopic(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				e.println("Add some flashcards first!")
				return nil
			}

			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tSCORE\tQUESTION\tANSWER")
			for _, c := range cards {
				_, _ = fmt.Fprintf(tw, "%s\t%+d\t%s\t%s\n", c.ID, c.Score, c.Question, c.Answer)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <topic-id> <question> <answer>",
		Short: "Add a card to a topic",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			card, err := a.CardService.Create(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			e.printf("Created card %s\n", card.ID)
			return nil
		},
	})

	var question, answer string
	edit := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Change a card's question or answer; the score is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			current, err := a.CardService.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			q, ans := current.Question, current.Answer
			if cmd.Flags().Changed("question") {
				q = question
			}
			if cmd.Flags().Changed("answer") {
				ans = answer
			}
			if _, err := a.CardService.Update(cmd.Context(), args[0], q, ans); err != nil {
				return err
			}
			e.println("Card updated.")
			return nil
		},
	}
	edit.Flags().StringVar(&question, "question", "", "new question")
	edit.Flags().StringVar(&answer, "answer", "", "new answer")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.CardService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.println("Card deleted.")
			return nil
		},
	})

	return cmd
}
