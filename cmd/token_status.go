package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/internal/audit"
	"github.com/darmiel/cftools/pkg/auth"
)

type tokenStatus struct {
	Store       string    `json:"store" yaml:"store"`
	State       string    `json:"state" yaml:"state"`
	Fingerprint string    `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	IssuedAt    time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	StaleAt     time.Time `json:"stale_at,omitempty" yaml:"stale_at,omitempty"`
}

var tokenStatusRefresh bool

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached token and whether it is still fresh",
	Long: `Reads the token store without contacting the API.
With --refresh a stale or missing token is renewed first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.Config()
		if err != nil {
			return err
		}

		if tokenStatusRefresh {
			_, manager, err := f.GetClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := manager.EnsureValidToken(cmd.Context()); err != nil {
				return logError(err, "", "refreshing token failed")
			}
		}

		store, err := f.Store(cmd.Context())
		if err != nil {
			return err
		}

		status := tokenStatus{
			Store: store.Location(),
			State: auth.StateNoToken.String(),
		}
		token, err := store.Load(cmd.Context())
		switch {
		case errors.Is(err, auth.ErrNoToken):
		case err != nil:
			return logError(err, "", "reading token store failed")
		default:
			status.Fingerprint = audit.Fingerprint(token.Value)
			status.IssuedAt = token.IssuedAt
			status.StaleAt = token.IssuedAt.Add(cfg.Token.Staleness)
			status.State = auth.StateFresh.String()
			if token.Stale(time.Now(), cfg.Token.Staleness) {
				status.State = auth.StateStale.String()
			}
		}

		return render(status, func() {
			fmt.Println(bold("\n── Bearer Token ──"))
			printKV("Store", status.Store)
			state := status.State
			switch status.State {
			case auth.StateFresh.String():
				state = greenCheck + " " + state
			case auth.StateStale.String():
				state = redCross + " " + state
			}
			printKV("State", state)
			if status.Fingerprint == "" {
				log.Info().Msg("no token cached, run 'cftools login' or any API command")
				return
			}
			printKV("Fingerprint", status.Fingerprint)
			printKV("Issued", fmt.Sprintf("%s (%s ago)",
				status.IssuedAt.Local().Format(time.RFC1123),
				time.Since(status.IssuedAt).Round(time.Second)))
			if until := time.Until(status.StaleAt); until > 0 {
				printKV("Refresh in", until.Round(time.Second))
			} else {
				printKV("Refresh in", "next API call")
			}
		})
	},
}

func init() {
	tokenCmd.AddCommand(tokenStatusCmd)

	tokenStatusCmd.Flags().BoolVar(&tokenStatusRefresh, "refresh", false, "Renew the token first if it is stale or missing")
}
