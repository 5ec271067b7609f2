package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/p-devianne/flashmind/internal/auth"
)

func newTokenCommand(e *env) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an API token signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Auth.AuthEnabled() {
				return errors.New("authentication is disabled: set auth.token_secret (FLASHMIND_AUTH_TOKEN_SECRET)")
			}
			tokens, err := auth.NewTokenService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := tokens.Generate(cmd.Context(), subject)
			if err != nil {
				return err
			}
			e.println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "client name recorded in the token")
	return cmd
}
