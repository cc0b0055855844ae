package tasks

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/darmiel/cftools/internal/logging"
)

var _ logging.InternalLogger = runLog{}

// runLog keeps the messages of one run in the task history, tagged with the run number.
type runLog struct {
	task *RunnableTask
	run  int
}

func (l runLog) record(level, format string, args []any) {
	l.task.AppendLog(level, fmt.Sprintf("#%d %s", l.run, fmt.Sprintf(format, args...)))
}

func (l runLog) Debug(format string, args ...any) { l.record("debug", format, args) }
func (l runLog) Info(format string, args ...any)  { l.record("info", format, args) }
func (l runLog) Warn(format string, args ...any)  { l.record("warn", format, args) }
func (l runLog) Error(format string, args ...any) { l.record("error", format, args) }

// newRunLogger writes to zerolog and to the task history.
func newRunLogger(task *RunnableTask, run int, zlog zerolog.Logger) logging.MultiLogger {
	return logging.NewMultiLogger(
		logging.NewZLogger(zlog.With().Int("run", run).Logger()),
		runLog{task: task, run: run},
	)
}
