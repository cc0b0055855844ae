package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/client"
)

// entryList describes a server list with list/add/remove commands (queue priority, whitelist).
type entryList struct {
	name   string
	short  string
	// method expressions of *client.Client
	list   func(cli *client.Client, ctx context.Context, filter client.ListFilter) ([]client.ListEntry, error)
	add    func(cli *client.Client, ctx context.Context, req client.ListEntryRequest) error
	remove func(cli *client.Client, ctx context.Context, cftoolsID string) error
}

func (l entryList) command() *cobra.Command {
	root := &cobra.Command{
		Use:   l.name,
		Short: l.short,
	}

	var filter client.ListFilter
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, _, err := f.GetClient(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := l.list(cli, cmd.Context(), filter)
			if err != nil {
				return logError(err, "", fmt.Sprintf("failed to list %s entries", l.name))
			}
			return render(entries, func() {
				printListEntries(entries)
			})
		},
	}
	listCmd.Flags().StringVar(&filter.CFToolsID, "cftools-id", "", "Only show entries of this CFTools id")
	listCmd.Flags().StringVar(&filter.Comment, "comment", "", "Only show entries with this comment")

	var comment, expires string
	addCmd := &cobra.Command{
		Use:   "add CFTOOLS-ID",
		Short: "Add an entry",
		Example: fmt.Sprintf(`  cftools %[1]s add 5fc7f9a050ae5adf01dc1234 --comment "supporter" --expires 720h
  cftools %[1]s add 5fc7f9a050ae5adf01dc1234 --expires 2026-12-31`, l.name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiresAt, err := parseExpiry(expires, time.Now())
			if err != nil {
				return err
			}
			req := client.ListEntryRequest{
				CFToolsID: args[0],
				ExpiresAt: expiresAt,
				Comment:   comment,
			}
			return withClient(cmd, l.name+".add", args[0], func(ctx context.Context, cli *client.Client) error {
				return l.add(cli, ctx, req)
			}, "added %s to %s (expires: %s)", args[0], l.name, formatExpiry(expiresAt))
		},
	}
	addCmd.Flags().StringVar(&comment, "comment", "", "Note stored with the entry")
	addCmd.Flags().StringVar(&expires, "expires", "", "Duration (e.g. 72h) or date (RFC 3339 or 2006-01-02); permanent if empty")

	removeCmd := &cobra.Command{
		Use:     "remove CFTOOLS-ID",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, l.name+".remove", args[0], func(ctx context.Context, cli *client.Client) error {
				return l.remove(cli, ctx, args[0])
			}, "removed %s from %s", args[0], l.name)
		},
	}

	root.AddCommand(listCmd, addCmd, removeCmd)
	return root
}

func printListEntries(entries []client.ListEntry) {
	t := newTable()
	t.AppendHeader(table.Row{"CFTools ID", "Comment", "Created", "Expires", "Creator"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			bold(e.User.CFToolsID),
			truncate(e.Meta.Comment, 40),
			e.CreatedAt.Local().Format(time.DateTime),
			formatExpiry(e.Meta.Expiration),
			faint(e.Creator.CFToolsID),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d entries", len(entries))})
	applyTableFormat(t)
	t.Render()
}

// parseExpiry accepts a duration relative to now, an RFC 3339 timestamp or a date.
// An empty string means no expiry.
func parseExpiry(s string, now time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("expiry duration must be positive, got %s", d)
		}
		t := now.Add(d)
		return &t, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse expiry %q, use a duration like 72h or a date like 2026-12-31", s)
}

func formatExpiry(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func init() {
	rootCmd.AddCommand(entryList{
		name:   "queue",
		short:  "Manage queue priority entries",
		list:   (*client.Client).ListQueuePriority,
		add:    (*client.Client).AddQueuePriority,
		remove: (*client.Client).DeleteQueuePriority,
	}.command())

	rootCmd.AddCommand(entryList{
		name:   "whitelist",
		short:  "Manage whitelist entries",
		list:   (*client.Client).ListWhitelist,
		add:    (*client.Client).AddWhitelist,
		remove: (*client.Client).DeleteWhitelist,
	}.command())
}
