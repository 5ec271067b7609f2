package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <topic-id>",
		Short: "Show a topic's success rate and card scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			detail, err := a.TopicService.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cards, err := a.CardService.ListByTopic(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			e.printf("%s %s\n", detail.Emoji, detail.Name)
			e.printf("Cards: %d\n", detail.CardCount)
			e.printf("Success rate: %d%%\n", detail.SuccessRate)
			if len(cards) == 0 {
				return nil
			}

			e.println()
			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "SCORE\tQUESTION")
			for _, c := range cards {
				_, _ = fmt.Fprintf(tw, "%+d\t%s\n", c.Score, c.Question)
			}
			return tw.Flush()
		},
	}
}
