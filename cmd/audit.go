package cmd

import (
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the local audit log",
	Long: `Mutating commands (kick, ban, whitelist, ...) are recorded in the audit log
when audit.path or --audit-log is set.`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
