package cmd

import (
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the cached bearer token",
	Long: `The bearer token is obtained with the application credential and kept in the
configured token store (token.store). It is reused until it is older than
token.staleness (12h by default) and then refreshed automatically.`,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
