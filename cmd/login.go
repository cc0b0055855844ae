package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the CFTools Cloud Data API",
	Long: `Exchanges the application id and secret for a bearer token and saves it in
the token store, replacing any cached token. Other commands authenticate on demand,
so this is only needed to check a credential or to warm a shared store.

The auth endpoint allows 2 requests per minute.`,
	Example: `  CFTOOLS_APPLICATION_ID=... CFTOOLS_SECRET=... cftools login`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, manager, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}

		log.Info().Msgf("Authenticating against %s...", cli.BaseURL())
		if err := manager.Authenticate(cmd.Context()); err != nil {
			return logError(err, "", "authentication failed")
		}

		logSuccess("token saved to %s", bold(manager.Store().Location()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
