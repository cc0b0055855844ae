package cmd

import (
	"github.com/spf13/cobra"
)

var tokenForgetCmd = &cobra.Command{
	Use:     "forget",
	Aliases: []string{"logout"},
	Short:   "Delete the cached token from the token store",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := f.Store(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.Clear(cmd.Context()); err != nil {
			return logError(err, "", "clearing token store failed")
		}
		logSuccess("removed cached token from %s", bold(store.Location()))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenForgetCmd)
}
