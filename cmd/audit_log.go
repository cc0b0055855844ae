package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/internal/audit"
)

var (
	auditLimit      int
	auditAction     string
	auditFailedOnly bool
)

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Display audit log entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.Config()
		if err != nil {
			return err
		}
		if cfg.Audit.Path == "" {
			log.Warn().Msg("no audit log configured, set audit.path or --audit-log")
			return BeQuietError{}
		}

		entries, err := audit.ReadFile(cfg.Audit.Path)
		if err != nil {
			return err
		}
		mem := audit.NewInMemoryAuditor()
		for _, e := range entries {
			_ = mem.Log(e)
		}
		entries, err = mem.Find(func(e audit.Entry) bool {
			if auditFailedOnly && e.Success {
				return false
			}
			return auditAction == "" || strings.HasPrefix(e.Action, auditAction)
		}, auditLimit)
		if err != nil {
			return err
		}

		log.Debug().Msgf("Retrieved %d audit entries", len(entries))

		return render(entries, func() {
			t := newTable()
			t.AppendHeader(table.Row{
				"Time", "Action", "Target", "OK", "Correlation ID", "Error",
			})
			for _, e := range entries {
				status := greenCheck
				if !e.Success {
					status = redCross
				}
				t.AppendRow(table.Row{
					e.Time.Local().Format(time.RFC3339),
					bold(e.Action),
					truncate(e.Target, 35),
					status,
					faint(e.CorrelationID),
					truncate(e.Error, 60),
				})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d entries", len(entries))})
			applyTableFormat(t)
			t.Render()
		})
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().IntVarP(&auditLimit, "limit", "n", 25, "Number of audit entries to show")
	auditLogCmd.Flags().StringVar(&auditAction, "action", "", "Only show actions with this prefix (e.g. whitelist)")
	auditLogCmd.Flags().BoolVar(&auditFailedOnly, "failed", false, "Only show failed calls")
}
