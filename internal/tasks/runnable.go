package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type RunnableTask struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Handler  TaskFunc

	logger       zerolog.Logger
	registeredAt time.Time

	mu           sync.RWMutex
	Running      bool
	Runs         int
	Failures     int
	LastRun      time.Time
	LastDuration time.Duration
	LastResult   string
	Logs         []LogEntry
}

// Run executes the handler once. Overlapping runs are skipped.
func (t *RunnableTask) Run(ctx context.Context) {
	t.mu.Lock()
	if t.Running {
		t.mu.Unlock()
		t.logger.Warn().Msg("task is already running, skipping execution")
		return
	}
	t.Running = true
	run := t.Runs + 1
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.Running = false
		t.LastRun = time.Now()
		t.mu.Unlock()
	}()

	taskLogger := newRunLogger(t, run, t.logger)
	taskLogger.Debug("starting task execution")

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	start := time.Now()
	err := t.Handler(ctx, taskLogger)
	duration := time.Since(start)

	t.mu.Lock()
	t.Runs++
	t.LastDuration = duration
	if err != nil {
		t.Failures++
		t.LastResult = fmt.Sprintf("failed: %v", err)
	} else {
		t.LastResult = "success"
	}
	t.mu.Unlock()

	if err != nil {
		taskLogger.Error("task failed after %s: %v", duration, err)
	} else {
		taskLogger.Debug("task completed successfully in %s", duration)
	}
}

func (t *RunnableTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var nextTime time.Time
	if t.Interval > 0 {
		if !t.LastRun.IsZero() {
			nextTime = t.LastRun.Add(t.Interval)
		} else {
			nextTime = t.registeredAt
		}
	}

	return TaskStatus{
		Name:         t.Name,
		Running:      t.Running,
		Runs:         t.Runs,
		Failures:     t.Failures,
		LastRun:      t.LastRun,
		LastDuration: t.LastDuration,
		LastResult:   t.LastResult,
		NextRun:      nextTime,
	}
}

func (t *RunnableTask) GetLogs() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cpy := make([]LogEntry, len(t.Logs))
	copy(cpy, t.Logs)
	return cpy
}

func (t *RunnableTask) AppendLog(level, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Logs = append(t.Logs, LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
	})

	if len(t.Logs) > MaxLogsPerTask {
		t.Logs = t.Logs[1:]
	}
}
