package cli

import (
	"github.com/spf13/cobra"

	"github.com/p-devianne/flashmind/internal/app"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			a, err := e.open(cmd.Context(), app.WithoutMigrations())
			if err != nil {
				return err
			}
			if err := a.Migrator.Run(cmd.Context(), command); err != nil {
				return err
			}

			version, err := a.Migrator.Version(cmd.Context())
			if err != nil {
				return err
			}
			e.printf("schema version: %d\n", version)
			return nil
		},
	}
}
