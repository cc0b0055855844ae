package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/darmiel/cftools/pkg/auth"
)

var (
	_ auth.Store  = (*SQLStore)(nil)
	_ auth.Locker = (*SQLStore)(nil)
)

// sqliteBusyTimeout makes a connection wait for a writer in another process instead of failing.
const sqliteBusyTimeout = "_busy_timeout=5000"

// tokenRow is the gorm model backing SQLStore.
type tokenRow struct {
	StoreKey  string `gorm:"primaryKey;size:191"`
	Token     string `gorm:"type:text;not null"`
	Timestamp int64  `gorm:"not null"`
	UpdatedAt time.Time
}

func (tokenRow) TableName() string {
	return "auth_tokens"
}

// SQLStore keeps one row per key in the auth_tokens table of any gorm database.
// Stores opened with NewSQLite on a database file share a sibling ".lock" file,
// so processes using the same database refresh one at a time.
type SQLStore struct {
	db   *gorm.DB
	key  string
	lock *flock.Flock
}

// NewSQL migrates the auth_tokens table and returns a store for key.
func NewSQL(db *gorm.DB, key string) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sql store requires database handle")
	}
	if key == "" {
		return nil, fmt.Errorf("sql token key required")
	}
	if err := db.AutoMigrate(&tokenRow{}); err != nil {
		return nil, fmt.Errorf("migrating auth_tokens table: %w", err)
	}
	return &SQLStore{db: db, key: key}, nil
}

// NewSQLite opens the sqlite database at path and returns a store for key.
// The database is closed again if the store cannot be created.
func NewSQLite(path, key string) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	db, err := OpenSQLite(withBusyTimeout(path))
	if err != nil {
		return nil, err
	}
	store, err := NewSQL(db, key)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	if lockPath := sqliteLockPath(path); lockPath != "" {
		store.lock = flock.New(lockPath)
	}
	return store, nil
}

// sqliteLockPath returns the lock file next to the database, or "" for in-memory databases.
func sqliteLockPath(path string) string {
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		return ""
	}
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return ""
	}
	return path + ".lock"
}

func withBusyTimeout(path string) string {
	if strings.Contains(path, "_busy_timeout") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + sqliteBusyTimeout
	}
	return path + "?" + sqliteBusyTimeout
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// OpenSQLite opens (and creates) a sqlite database for SQLStore.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database '%s': %w", path, err)
	}
	return db, nil
}

func (s *SQLStore) Location() string {
	return fmt.Sprintf("sql:%s#%s", s.db.Dialector.Name(), s.key)
}

func (s *SQLStore) Load(ctx context.Context) (*auth.AuthToken, error) {
	var row tokenRow
	err := s.db.WithContext(ctx).Where("store_key = ?", s.key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrNoToken
		}
		return nil, s.err("read", err)
	}
	if row.Token == "" {
		return nil, s.err("decode", fmt.Errorf("record has no token"))
	}
	tok := auth.Record{Token: row.Token, Timestamp: row.Timestamp}.AuthToken()
	return &tok, nil
}

func (s *SQLStore) Save(ctx context.Context, token auth.AuthToken) error {
	rec := auth.NewRecord(token)
	row := tokenRow{
		StoreKey:  s.key,
		Token:     rec.Token,
		Timestamp: rec.Timestamp,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "timestamp", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return s.err("write", err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("store_key = ?", s.key).Delete(&tokenRow{}).Error; err != nil {
		return s.err("clear", err)
	}
	return nil
}

// Lock blocks until the lock file is held or ctx is done.
// Stores without a lock file only rely on the manager's in-process mutex.
func (s *SQLStore) Lock(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	unlock, err := acquireFlock(ctx, s.lock)
	if err != nil {
		return nil, s.err("lock", err)
	}
	return unlock, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) err(op string, err error) error {
	return &auth.PersistenceError{Op: op, Path: s.key, Err: err}
}
