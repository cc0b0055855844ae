package cmd

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	Long:  `Checks credentials, URLs, token store settings and timeouts without contacting the API.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.Config()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			log.Error().Msgf("%s Configuration is invalid:", redCross)
			var joined interface{ Unwrap() []error }
			if errors.As(err, &joined) {
				for _, e := range joined.Unwrap() {
					log.Error().Msgf("  - %v", e)
				}
			} else {
				log.Error().Msgf("  - %v", err)
			}
			return BeQuietError{}
		}
		logSuccess("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
