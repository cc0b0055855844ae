package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

var broadcastCmd = &cobra.Command{
	Use:     "broadcast TEXT...",
	Short:   "Send a message to every player on the server",
	Example: `  cftools broadcast "Server restart in 5 minutes"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.Join(args, " ")
		return withClient(cmd, "broadcast", "", func(ctx context.Context, cli *client.Client) error {
			return cli.BroadcastMessage(ctx, content)
		}, "broadcast sent")
	},
}

var rconCmd = &cobra.Command{
	Use:     "rcon COMMAND...",
	Short:   "Send a raw RCon command to the server",
	Example: `  cftools rcon '#lock'`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")
		return withClient(cmd, "rcon", command, func(ctx context.Context, cli *client.Client) error {
			return cli.RawCommand(ctx, command)
		}, "command sent")
	},
}

func init() {
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(rconCmd)
}
