package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interact with the configuration",
	Long: `Utilities for validating and viewing the effective cftools configuration.
Settings are read from flags, CFTOOLS_* environment variables, a .env file and
.cftools.yaml, in that order of precedence.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
