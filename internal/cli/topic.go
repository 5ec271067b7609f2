package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTopicCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage topics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List topics with card counts and success rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			topics, err := a.TopicService.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				e.println("No topics yet. Add one with: flashmind topic add <name>")
				return nil
			}

			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tTOPIC\tCARDS\tSUCCESS")
			for _, t := range topics {
				_, _ = fmt.Fprintf(tw, "%s\t%s %s\t%d\t%d%%\n", t.ID, t.Emoji, t.Name, t.CardCount, t.SuccessRate)
			}
			return tw.Flush()
		},
	})

	var emoji string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			topic, err := a.TopicService.Create(cmd.Context(), args[0], emoji)
			if err != nil {
				return err
			}
			e.printf("Created topic %s %s (%s)\n", topic.Emoji, topic.Name, topic.ID)
			return nil
		},
	}
	add.Flags().StringVar(&emoji, "emoji", "", "topic emoji")
	cmd.AddCommand(add)

	var newName, newEmoji string
	edit := &cobra.Command{
		Use:   "edit <topic-id>",
		Short: "Rename a topic or change its emoji",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			current, err := a.TopicService.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name, em := current.Name, current.Emoji
			if cmd.Flags().Changed("name") {
				name = newName
			}
			if cmd.Flags().Changed("emoji") {
				em = newEmoji
			}
			topic, err := a.TopicService.Update(cmd.Context(), args[0], name, em)
			if err != nil {
				return err
			}
			e.printf("Updated topic %s %s\n", topic.Emoji, topic.Name)
			return nil
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&newEmoji, "emoji", "", "new emoji")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <topic-id>",
		Short: "Delete a topic and all of its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.TopicService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.println("Topic deleted.")
			return nil
		},
	})

	return cmd
}
