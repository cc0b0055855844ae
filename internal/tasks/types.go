package tasks

import (
	"context"
	"time"

	"github.com/darmiel/cftools/internal/logging"
)

// TaskFunc is the unit of work.
// It receives a logger which also keeps the output with the task.
type TaskFunc func(ctx context.Context, logger logging.InternalLogger) error

type TaskStatus struct {
	Name         string        `json:"name,omitempty" yaml:"name,omitempty"`
	Running      bool          `json:"running,omitempty" yaml:"running,omitempty"`
	Runs         int           `json:"runs" yaml:"runs"`
	Failures     int           `json:"failures" yaml:"failures"`
	LastRun      time.Time     `json:"last_run" yaml:"last_run"`
	LastDuration time.Duration `json:"last_duration" yaml:"last_duration"`
	LastResult   string        `json:"last_result,omitempty" yaml:"last_result,omitempty"`
	NextRun      time.Time     `json:"next_run" yaml:"next_run"`
}

type LogEntry struct {
	Time    time.Time `json:"time" yaml:"time"`
	Level   string    `json:"level,omitempty" yaml:"level,omitempty"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
}
