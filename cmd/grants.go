package cmd

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "List the servers and banlists the application has access to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, _, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}
		grants, err := cli.Grants(cmd.Context())
		if err != nil {
			return logError(err, "", "failed to list grants")
		}

		return render(grants, func() {
			t := newTable()
			t.AppendHeader(table.Row{"Type", "Resource ID", "Granted"})
			appendGrants := func(kind string, list []client.Grant) {
				for _, g := range list {
					t.AppendRow(table.Row{kind, bold(g.Resource.ID), g.CreatedAt.Local().Format(time.DateTime)})
				}
			}
			appendGrants("server", grants.Server)
			appendGrants("banlist", grants.Banlist)
			applyTableFormat(t)
			t.Render()
		})
	},
}

func init() {
	rootCmd.AddCommand(grantsCmd)
}
