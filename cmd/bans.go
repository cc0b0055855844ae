package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

var bansCmd = &cobra.Command{
	Use:     "bans",
	Aliases: []string{"ban", "banlist"},
	Short:   "Manage the banlist selected with --banlist-id",
}

var bansFilter string

var bansListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bans",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		bans, err := cli.ListBans(cmd.Context(), bansFilter)
		if err != nil {
			return logError(err, "", "failed to list bans")
		}
		return render(bans, func() {
			t := newTable()
			t.AppendHeader(table.Row{"Ban ID", "Identifier", "Reason", "Created", "Expires", "Status"})
			for _, b := range bans {
				t.AppendRow(table.Row{
					faint(b.ID),
					bold(b.Identifier),
					truncate(b.Reason, 40),
					b.CreatedAt.Local().Format(time.DateTime),
					formatExpiry(b.ExpiresAt),
					b.Status,
				})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d bans", len(bans))})
			applyTableFormat(t)
			t.Render()
		})
	},
}

var (
	banFormat  string
	banExpires string
)

var bansAddCmd = &cobra.Command{
	Use:   "add IDENTIFIER REASON...",
	Short: "Issue a ban (kicks the player in-game)",
	Long: `Bans a CFTools id (--format cftools_id, default) or an IPv4 address (--format ipv4).
IPv4 identifiers may contain '*' wildcards.`,
	Example: `  cftools bans add 5fc7f9a050ae5adf01dc1234 "cheating" --expires 720h
  cftools bans add '10.0.*.*' "vpn abuse" --format ipv4`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		expiresAt, err := parseExpiry(banExpires, time.Now())
		if err != nil {
			return err
		}
		req := client.BanRequest{
			Format:     client.BanFormat(banFormat),
			Identifier: args[0],
			ExpiresAt:  expiresAt,
			Reason:     strings.Join(args[1:], " "),
		}
		return withClient(cmd, "ban", args[0], func(ctx context.Context, cli *client.Client) error {
			return cli.Ban(ctx, req)
		}, "banned %s (expires: %s)", args[0], formatExpiry(expiresAt))
	},
}

var bansRemoveCmd = &cobra.Command{
	Use:     "remove BAN-ID",
	Aliases: []string{"rm", "unban"},
	Short:   "Revoke a ban",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, "unban", args[0], func(ctx context.Context, cli *client.Client) error {
			return cli.Unban(ctx, args[0])
		}, "revoked ban %s", args[0])
	},
}

func init() {
	rootCmd.AddCommand(bansCmd)
	bansCmd.AddCommand(bansListCmd)
	bansCmd.AddCommand(bansAddCmd)
	bansCmd.AddCommand(bansRemoveCmd)

	bansListCmd.Flags().StringVar(&bansFilter, "filter", "", "Only show bans of this IPv4 or CFTools id")
	bansAddCmd.Flags().StringVar(&banFormat, "format", string(client.BanFormatCFToolsID), "Identifier format (cftools_id, ipv4)")
	bansAddCmd.Flags().StringVar(&banExpires, "expires", "", "Duration (e.g. 72h) or date; permanent if empty")
}
