package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

var (
	gameserverGame string
	gameserverIP   string
	gameserverPort string
)

var gameserverCmd = &cobra.Command{
	Use:   "gameserver",
	Short: "Show the public Steamrelay data of a game server",
	Long: `Game servers are addressed by the SHA-1 of game identifier, IPv4 and game port.
Without flags the game.* settings are used.`,
	Example: `  cftools gameserver --ip 222.222.228.222 --port 2302`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.Config()
		if err != nil {
			return err
		}
		game, ip, port := cfg.Game.Identifier, cfg.Game.IP, cfg.Game.Port
		if gameserverGame != "" {
			game = gameserverGame
		}
		if gameserverIP != "" {
			ip = gameserverIP
		}
		if gameserverPort != "" {
			port = gameserverPort
		}
		if ip == "" || port == "" {
			return fmt.Errorf("%w: use --ip and --port or set game.ip and game.port", client.ErrMissingGameServer)
		}

		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		id := client.GameServerID(game, ip, port)
		gs, err := cli.GameServerByID(cmd.Context(), id)
		if err != nil {
			return logError(err, "", "failed to get game server")
		}

		return render(gs, func() {
			online := redCross + " offline"
			if gs.Online {
				online = greenCheck + " online"
			}
			fmt.Println(bold("\n── " + gs.Name + " ──"))
			printKV("Server ID", faint(id))
			printKV("Status", online)
			printKV("Address", fmt.Sprintf("%s:%d (query %d)", gs.Host.Address, gs.Host.GamePort, gs.Host.QueryPort))
			printKV("Map", gs.Map)
			printKV("Version", gs.Version)
			printKV("Players", fmt.Sprintf("%d/%d (queue %d)",
				gs.Status.Players.Online, gs.Status.Players.Slots, gs.Status.Players.Queue))
			printKV("Rank", gs.Rank)
			printKV("Time", gs.Environment.Time)
			printKV("Whitelist", gs.Security.Whitelist)
		})
	},
}

func init() {
	rootCmd.AddCommand(gameserverCmd)

	gameserverCmd.Flags().StringVar(&gameserverGame, "game", "", "Game identifier (DayZ is 1)")
	gameserverCmd.Flags().StringVar(&gameserverIP, "ip", "", "IPv4 address of the game server")
	gameserverCmd.Flags().StringVar(&gameserverPort, "port", "", "Game port of the game server")
}
