package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

var (
	leaderboardStat  string
	leaderboardOrder int
	leaderboardLimit int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show a leaderboard generated from the player stats of the server",
	Long: fmt.Sprintf(`Generates a leaderboard for one stat. The API allows 7 requests per minute.
Stats: %s`, joinStats()),
	Example: `  cftools leaderboard --stat kdratio --limit 25`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		board, err := cli.Leaderboard(cmd.Context(), client.Stat(leaderboardStat), client.Order(leaderboardOrder), leaderboardLimit)
		if err != nil {
			return logError(err, "", "failed to generate leaderboard")
		}

		return render(board, func() {
			t := newTable()
			t.AppendHeader(table.Row{"#", "Name", "Kills", "Deaths", "K/D", "Playtime", "Longest Kill"})
			for _, e := range board {
				t.AppendRow(table.Row{
					e.Rank,
					bold(truncate(e.LatestName, 32)),
					e.Kills,
					e.Deaths,
					fmt.Sprintf("%.2f", e.KDRatio),
					(time.Duration(e.Playtime) * time.Second).String(),
					fmt.Sprintf("%.0fm", e.LongestKill),
				})
			}
			applyTableFormat(t)
			t.Render()
		})
	},
}

func joinStats() string {
	names := make([]string, len(client.Stats))
	for i, s := range client.Stats {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

var lookupCmd = &cobra.Command{
	Use:   "lookup IDENTIFIER",
	Short: "Resolve a Steam64 id, BattlEye GUID or Bohemia id to a CFTools id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		id, err := cli.LookupUser(cmd.Context(), args[0])
		if err != nil {
			return logError(err, "", "lookup failed")
		}
		return render(map[string]string{"identifier": args[0], "cftools_id": id}, func() {
			printKV("CFTools ID", bold(id))
		})
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(lookupCmd)

	leaderboardCmd.Flags().StringVar(&leaderboardStat, "stat", string(client.StatKills), "Stat to rank by")
	leaderboardCmd.Flags().IntVar(&leaderboardOrder, "order", int(client.Descending), "1 for ascending, -1 for descending")
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", client.DefaultLeaderboardLimit, "Number of entries (1-100)")
}
