package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/darmiel/cftools/pkg/client"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Inspect the server selected with --server-id",
}

var serverInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show general information about the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		info, err := cli.ServerInfo(cmd.Context())
		if err != nil {
			return logError(err, "", "failed to get server info")
		}
		return render(info, func() {
			printServerInfo(info)
		})
	},
}

var serverStatsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"statistics"},
	Short:   "Show aggregated server statistics",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := cli.ServerStatistics(cmd.Context())
		if err != nil {
			return logError(err, "", "failed to get server statistics")
		}
		return render(stats, func() {
			printStatistics(stats)
		})
	},
}

type serverOverview struct {
	Info       *client.ServerInfo      `json:"info" yaml:"info"`
	Statistics client.ServerStatistics `json:"statistics" yaml:"statistics"`
	Players    []client.Session        `json:"players" yaml:"players"`
}

var serverOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Fetch info, statistics and players of the server at once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, manager, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		// authenticate once up front instead of racing three requests into the exchange
		if err := manager.EnsureValidToken(cmd.Context()); err != nil {
			return logError(err, "", "authentication failed")
		}

		var overview serverOverview
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			overview.Info, err = cli.ServerInfo(ctx)
			return err
		})
		g.Go(func() (err error) {
			overview.Statistics, err = cli.ServerStatistics(ctx)
			return err
		})
		g.Go(func() (err error) {
			overview.Players, err = cli.PlayerList(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return logError(err, "", "failed to get server overview")
		}
		log.Debug().Int("players", len(overview.Players)).Msg("fetched server overview")

		return render(overview, func() {
			printServerInfo(overview.Info)
			printStatistics(overview.Statistics)
			printSessions(overview.Players)
		})
	},
}

func printServerInfo(info *client.ServerInfo) {
	connected := redCross + " disconnected"
	if info.Worker.Connected {
		connected = greenCheck + " connected"
	}
	fmt.Println(bold("\n── " + info.Name + " ──"))
	printKV("Object ID", faint(info.ObjectID))
	printKV("Game server ID", faint(info.GameServer.GameServerID))
	printKV("Worker", connected)
	printKV("Protocol", info.Connection.ProtocolUsed)
	printKV("Peer version", info.Connection.PeerVersion)
}

func printStatistics(stats client.ServerStatistics) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println(bold("\n── Statistics ──"))
	for _, k := range keys {
		printKV(k, compactJSON(stats[k]))
	}
}

func compactJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	switch v := v.(type) {
	case string:
		return v
	case map[string]any, []any:
		return truncate(strings.TrimSpace(string(raw)), 80)
	default:
		return fmt.Sprint(v)
	}
}

func printSessions(sessions []client.Session) {
	t := newTable()
	t.AppendHeader(table.Row{"Session", "Name", "CFTools ID", "Steam64", "Ping", "Country"})
	for _, s := range sessions {
		t.AppendRow(table.Row{
			faint(s.ID),
			bold(truncate(s.Name(), 32)),
			s.CFToolsID,
			s.Gamedata.Steam64,
			s.Info.Ping,
			s.Info.Country,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d online", len(sessions))})
	applyTableFormat(t)
	t.Render()
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.AddCommand(serverInfoCmd)
	serverCmd.AddCommand(serverStatsCmd)
	serverCmd.AddCommand(serverOverviewCmd)
}
