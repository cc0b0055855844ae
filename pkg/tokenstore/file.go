package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/darmiel/cftools/pkg/auth"
)

var (
	_ auth.Store  = (*FileStore)(nil)
	_ auth.Locker = (*FileStore)(nil)
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps the token in a JSON file.
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers see either the old or the new record.
// A sibling ".lock" file serializes refreshes between processes.
type FileStore struct {
	path string
	lock *flock.Flock
}

func NewFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("token file path cannot be empty")
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// DefaultFilePath returns $HOME/.cftools/token.json.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(home, ".cftools", "token.json"), nil
}

func (s *FileStore) Location() string {
	return "file:" + s.path
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (*auth.AuthToken, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, auth.ErrNoToken
		}
		return nil, s.err("read", err)
	}
	if len(data) == 0 {
		return nil, auth.ErrNoToken
	}
	return decodeRecord(data, func(err error) error {
		return s.err("decode", err)
	})
}

func (s *FileStore) Save(_ context.Context, token auth.AuthToken) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return s.err("write", fmt.Errorf("creating directory '%s': %w", dir, err))
	}

	data, err := json.Marshal(auth.NewRecord(token))
	if err != nil {
		return s.err("encode", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return s.err("write", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return s.err("write", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return s.err("write", err)
	}
	if err := tmp.Close(); err != nil {
		return s.err("write", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return s.err("write", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return s.err("write", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return s.err("clear", err)
	}
	return nil
}

// Lock blocks until the lock file is held or ctx is done.
func (s *FileStore) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, s.err("lock", err)
	}
	unlock, err := acquireFlock(ctx, s.lock)
	if err != nil {
		return nil, s.err("lock", err)
	}
	return unlock, nil
}

// acquireFlock blocks until l is held or ctx is done.
func acquireFlock(ctx context.Context, l *flock.Flock) (func(), error) {
	locked, err := l.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("lock not acquired")
	}
	return func() {
		_ = l.Unlock()
	}, nil
}

func (s *FileStore) err(op string, err error) error {
	return &auth.PersistenceError{Op: op, Path: s.path, Err: err}
}

// decodeRecord parses a persisted record and rejects records without a token.
func decodeRecord(data []byte, wrap func(error) error) (*auth.AuthToken, error) {
	var rec auth.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, wrap(err)
	}
	if rec.Token == "" {
		return nil, wrap(fmt.Errorf("record has no token"))
	}
	tok := rec.AuthToken()
	return &tok, nil
}
