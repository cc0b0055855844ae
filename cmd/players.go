package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

var playersFilter string

var playersCmd = &cobra.Command{
	Use:     "players",
	Aliases: []string{"player"},
	Short:   "List and moderate the players on the server",
	Long: `Players are addressed by their game session id, as shown by 'cftools players list'.
Teleport and spawn require GameLabs on the server.`,
}

var playersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the players currently on the server",
	Long: `Lists the active game sessions. --filter takes a boolean expression over the fields
id, name, cftools_id, steam64, ping, country, loaded and online_for (seconds).`,
	Example: `  cftools players list --filter 'ping > 150'
  cftools players list --filter 'country == "DE" && online_for > 3600'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := compileSessionFilter(playersFilter)
		if err != nil {
			return err
		}
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		sessions, err := cli.PlayerList(cmd.Context())
		if err != nil {
			return logError(err, "", "failed to list players")
		}
		total := len(sessions)
		if sessions, err = filter.apply(sessions); err != nil {
			return err
		}
		log.Debug().Msgf("%d of %d sessions match", len(sessions), total)

		return render(sessions, func() {
			printSessions(sessions)
		})
	},
}

var playersKickCmd = &cobra.Command{
	Use:   "kick SESSION-ID REASON...",
	Short: "Kick a player from the server",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gsID, reason := args[0], strings.Join(args[1:], " ")
		return withClient(cmd, "kick", gsID, func(ctx context.Context, cli *client.Client) error {
			return cli.Kick(ctx, gsID, reason)
		}, "kicked %s", gsID)
	},
}

var playersMessageCmd = &cobra.Command{
	Use:     "message SESSION-ID TEXT...",
	Aliases: []string{"msg"},
	Short:   "Send a private message to a player",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gsID, content := args[0], strings.Join(args[1:], " ")
		return withClient(cmd, "message", gsID, func(ctx context.Context, cli *client.Client) error {
			return cli.PrivateMessage(ctx, gsID, content)
		}, "message sent to %s", gsID)
	},
}

var playersTeleportCmd = &cobra.Command{
	Use:     "teleport SESSION-ID X Y",
	Aliases: []string{"tp"},
	Short:   "Teleport a player to map coordinates (GameLabs)",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		gsID := args[0]
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parsing x coordinate: %w", err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("parsing y coordinate: %w", err)
		}
		return withClient(cmd, "teleport", gsID, func(ctx context.Context, cli *client.Client) error {
			return cli.Teleport(ctx, gsID, x, y)
		}, "teleported %s to %g, %g", gsID, x, y)
	},
}

var spawnQuantity int

var playersSpawnCmd = &cobra.Command{
	Use:   "spawn SESSION-ID OBJECT",
	Short: "Spawn an object for a player (GameLabs)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gsID, object := args[0], args[1]
		return withClient(cmd, "spawn", gsID, func(ctx context.Context, cli *client.Client) error {
			return cli.Spawn(ctx, gsID, object, spawnQuantity)
		}, "spawned %dx %s for %s", spawnQuantity, object, gsID)
	},
}

var playersStatsCmd = &cobra.Command{
	Use:   "stats CFTOOLS-ID",
	Short: "Show the stats of a player on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := cli.PlayerStats(cmd.Context(), args[0])
		if err != nil {
			return logError(err, "", "failed to get player stats")
		}
		return render(stats, func() {
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println(bold("\n── Player " + args[0] + " ──"))
			for _, k := range keys {
				printKV(k, compactJSON(stats[k]))
			}
		})
	},
}

// withClient runs an audited mutation and logs success.
func withClient(
	cmd *cobra.Command,
	action, target string,
	fn func(ctx context.Context, cli *client.Client) error,
	successFormat string, successArgs ...any,
) error {
	cli, _, err := f.GetClient(cmd.Context())
	if err != nil {
		return err
	}
	err = f.Audited(cmd.Context(), action, target, func(ctx context.Context) error {
		return fn(ctx, cli)
	})
	if err != nil {
		return err
	}
	logSuccess(successFormat, successArgs...)
	return nil
}

func init() {
	rootCmd.AddCommand(playersCmd)
	playersCmd.AddCommand(playersListCmd)
	playersCmd.AddCommand(playersKickCmd)
	playersCmd.AddCommand(playersMessageCmd)
	playersCmd.AddCommand(playersTeleportCmd)
	playersCmd.AddCommand(playersSpawnCmd)
	playersCmd.AddCommand(playersStatsCmd)

	playersListCmd.Flags().StringVar(&playersFilter, "filter", "", "Only show sessions matching this expression")
	playersSpawnCmd.Flags().IntVarP(&spawnQuantity, "quantity", "q", 1, "Quantity (1-9999)")
}
