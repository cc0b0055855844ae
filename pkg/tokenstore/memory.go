package tokenstore

import (
	"context"
	"sync"

	"github.com/darmiel/cftools/pkg/auth"
)

var _ auth.Store = (*MemoryStore)(nil)

// MemoryStore keeps the token for the lifetime of the process only.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *auth.Record
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Location() string {
	return "memory"
}

func (s *MemoryStore) Load(_ context.Context) (*auth.AuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rec == nil {
		return nil, auth.ErrNoToken
	}
	tok := s.rec.AuthToken()
	return &tok, nil
}

func (s *MemoryStore) Save(_ context.Context, token auth.AuthToken) error {
	rec := auth.NewRecord(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = &rec
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = nil
	return nil
}
