package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	MaxLogsPerTask = 1000
	DefaultTimeout = time.Minute
)

// TaskNotFoundError is returned for names that were never registered.
type TaskNotFoundError struct {
	Name string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("no task named %q", e.Name)
}

// Manager runs registered tasks on their interval until its context is done.
type Manager struct {
	tasks  sync.Map
	logger zerolog.Logger
	wg     sync.WaitGroup
}

func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a task. With a positive interval it runs once immediately and then
// on every tick until ctx is done. A non-positive timeout uses DefaultTimeout.
func (m *Manager) Register(ctx context.Context, name string, interval, timeout time.Duration, fn TaskFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	task := &RunnableTask{
		Name:         name,
		Interval:     interval,
		Timeout:      timeout,
		Handler:      fn,
		Logs:         make([]LogEntry, 0),
		logger:       m.logger.With().Str("task", name).Logger(),
		registeredAt: time.Now(),
	}
	m.tasks.Store(name, task)

	if interval > 0 {
		m.wg.Add(1)
		go m.scheduler(ctx, task)
	}
}

// Trigger runs a task once in the background.
func (m *Manager) Trigger(ctx context.Context, name string) error {
	task, err := m.get(name)
	if err != nil {
		return err
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		task.Run(ctx)
	}()
	return nil
}

// Wait blocks until all schedulers and triggered runs have returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) ListStatus() []TaskStatus {
	var list []TaskStatus
	m.tasks.Range(func(key, value any) bool {
		task := value.(*RunnableTask)
		list = append(list, task.Status())
		return true
	})
	return list
}

func (m *Manager) GetLogs(name string) ([]LogEntry, error) {
	task, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return task.GetLogs(), nil
}

func (m *Manager) get(name string) (*RunnableTask, error) {
	t, ok := m.tasks.Load(name)
	if !ok {
		return nil, TaskNotFoundError{Name: name}
	}
	return t.(*RunnableTask), nil
}

func (m *Manager) scheduler(ctx context.Context, task *RunnableTask) {
	defer m.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	task.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task.Run(ctx)
		}
	}
}
