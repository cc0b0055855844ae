package audit

import (
	"slices"
	"sync"
)

var (
	_ Auditor = (*InMemoryAuditor)(nil)
	_ Reader  = (*InMemoryAuditor)(nil)
)

// InMemoryAuditor keeps audit entries in memory.
type InMemoryAuditor struct {
	mu      sync.Mutex
	entries []Entry
}

func NewInMemoryAuditor() *InMemoryAuditor {
	return &InMemoryAuditor{
		entries: make([]Entry, 0),
	}
}

func (i *InMemoryAuditor) Log(entry Entry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries = append(i.entries, entry)
	return nil
}

func (i *InMemoryAuditor) GetRecent(limit int) ([]Entry, error) {
	return i.Find(nil, limit)
}

func (i *InMemoryAuditor) Find(filter func(entry Entry) bool, limit int) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	return slices.Clone(filterRecent(i.entries, filter, limit)), nil
}

func (i *InMemoryAuditor) Close() error {
	return nil // nothing to close :)
}
