package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.Config()
		if err != nil {
			return err
		}
		redacted := cfg.Redacted()
		return render(redacted, func() {
			out, err := yaml.Marshal(redacted)
			if err != nil {
				_ = logError(err, "", "encoding configuration failed")
				return
			}
			_, _ = os.Stdout.Write(out)
		})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
