package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/internal/buildinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about the cftools installation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Debug().Msg("Showing local build info...")
		info := buildinfo.GetBuildInfo()
		return render(info, func() {
			printInfo(&info)
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printInfo(info *buildinfo.Info) {
	fmt.Println(bold("\n── cftools Build Information ──"))
	fmt.Printf("  %s:    %s\n", faint("Version"), info.Version)
	fmt.Printf("  %s:     %s\n", faint("Commit"), info.CommitHash)
	fmt.Printf("  %s:         %s\n", faint("Go"), info.GoVersion)
	fmt.Printf("  %s:   %s\n", faint("Platform"), info.Platform)
	fmt.Printf("  %s: %s\n", faint("User-Agent"), buildinfo.UserAgent())
}
