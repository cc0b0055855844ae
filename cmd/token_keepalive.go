package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/internal/logging"
	"github.com/darmiel/cftools/internal/tasks"
	"github.com/darmiel/cftools/pkg/auth"
)

const keepaliveTask = "keepalive"

var (
	keepaliveInterval time.Duration
	keepaliveTimeout  time.Duration
)

var tokenKeepaliveCmd = &cobra.Command{
	Use:   "keepalive",
	Short: "Keep the token in the store fresh until interrupted",
	Long: `Periodically checks the cached token and refreshes it once it is stale, so that
other processes sharing the token store never have to authenticate themselves.
SIGHUP runs a check right away. Stops on SIGINT or SIGTERM.
A rejected credential stops the loop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keepaliveInterval <= 0 {
			return fmt.Errorf("interval must be positive")
		}
		_, manager, err := f.GetClient(cmd.Context())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var fatal error
		runner := tasks.NewManager(log.Logger)
		runner.Register(ctx, keepaliveTask, keepaliveInterval, keepaliveTimeout,
			func(ctx context.Context, logger logging.InternalLogger) error {
				before := manager.State()
				if err := manager.EnsureValidToken(ctx); err != nil {
					if auth.IsCredentialError(err) {
						fatal = err
						stop()
					}
					return err
				}
				if before != auth.StateFresh {
					logger.Info("token is fresh again (was %s)", before)
				}
				return nil
			})

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		log.Info().Msgf("keeping token in %s fresh, checking every %s",
			manager.Store().Location(), keepaliveInterval)
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-hup:
				log.Info().Msg("received SIGHUP, checking token now")
				if err := runner.Trigger(ctx, keepaliveTask); err != nil {
					log.Warn().Err(err).Msg("cannot trigger check")
				}
			}
		}
		runner.Wait()

		for _, status := range runner.ListStatus() {
			log.Info().
				Int("runs", status.Runs).
				Int("failures", status.Failures).
				Str("last_result", status.LastResult).
				Dur("last_duration", status.LastDuration).
				Msgf("%s stopped", status.Name)
			if status.Failures == 0 {
				continue
			}
			for _, entry := range failedRuns(runner, status.Name) {
				log.Warn().Time("at", entry.Time).Msg(entry.Message)
			}
		}
		if fatal != nil {
			return logError(fatal, "", "credential was rejected")
		}
		return nil
	},
}

// failedRuns returns the error lines kept for the task.
func failedRuns(runner *tasks.Manager, name string) []tasks.LogEntry {
	logs, err := runner.GetLogs(name)
	if err != nil {
		return nil
	}
	var failed []tasks.LogEntry
	for _, entry := range logs {
		if entry.Level == "error" {
			failed = append(failed, entry)
		}
	}
	return failed
}

func init() {
	tokenCmd.AddCommand(tokenKeepaliveCmd)

	tokenKeepaliveCmd.Flags().DurationVar(&keepaliveInterval, "interval", 5*time.Minute, "How often to check the token")
	tokenKeepaliveCmd.Flags().DurationVar(&keepaliveTimeout, "timeout", time.Minute, "Timeout of a single refresh")
}
