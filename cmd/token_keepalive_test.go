package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/cftools/internal/logging"
	"github.com/darmiel/cftools/internal/tasks"
)

func TestFailedRuns(t *testing.T) {
	runner := tasks.NewManager(zerolog.Nop())
	ctx := context.Background()

	fail := true
	runner.Register(ctx, keepaliveTask, 0, time.Second, func(ctx context.Context, logger logging.InternalLogger) error {
		if fail {
			return errors.New("network unreachable")
		}
		return nil
	})

	require.NoError(t, runner.Trigger(ctx, keepaliveTask))
	runner.Wait()
	fail = false
	require.NoError(t, runner.Trigger(ctx, keepaliveTask))
	runner.Wait()

	failed := failedRuns(runner, keepaliveTask)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Message, "#1 ")
	assert.Contains(t, failed[0].Message, "network unreachable")

	assert.Empty(t, failedRuns(runner, "missing"))
}
