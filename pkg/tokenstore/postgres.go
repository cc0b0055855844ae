package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/darmiel/cftools/pkg/auth"
)

var (
	_ auth.Store  = (*PostgresStore)(nil)
	_ auth.Locker = (*PostgresStore)(nil)
)

const createTokenTable = `
CREATE TABLE IF NOT EXISTS cftools_tokens (
	key        TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	timestamp  BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// PostgresStore shares the token through a postgres table.
// Refreshes are serialized with a session level advisory lock derived from the key.
type PostgresStore struct {
	pool    *pgxpool.Pool
	key     string
	lockKey int64
}

func NewPostgres(ctx context.Context, cfg PostgresConfig, key string) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}
	if key == "" {
		return nil, fmt.Errorf("postgres token key required")
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, createTokenTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating cftools_tokens table: %w", err)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte("cftools:" + key))

	return &PostgresStore{
		pool:    pool,
		key:     key,
		lockKey: int64(h.Sum64()),
	}, nil
}

func (s *PostgresStore) Location() string {
	return "postgres:" + s.key
}

func (s *PostgresStore) Load(ctx context.Context) (*auth.AuthToken, error) {
	var rec auth.Record
	err := s.pool.QueryRow(ctx,
		`SELECT token, timestamp FROM cftools_tokens WHERE key = $1`, s.key,
	).Scan(&rec.Token, &rec.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNoToken
		}
		return nil, s.err("read", err)
	}
	if rec.Token == "" {
		return nil, s.err("decode", fmt.Errorf("record has no token"))
	}
	tok := rec.AuthToken()
	return &tok, nil
}

func (s *PostgresStore) Save(ctx context.Context, token auth.AuthToken) error {
	rec := auth.NewRecord(token)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cftools_tokens (key, token, timestamp, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE
		SET token = EXCLUDED.token, timestamp = EXCLUDED.timestamp, updated_at = now()`,
		s.key, rec.Token, rec.Timestamp)
	if err != nil {
		return s.err("write", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cftools_tokens WHERE key = $1`, s.key); err != nil {
		return s.err("clear", err)
	}
	return nil
}

// Lock holds a dedicated connection for the advisory lock until unlock is called.
func (s *PostgresStore) Lock(ctx context.Context) (func(), error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, s.err("lock", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, s.lockKey); err != nil {
		conn.Release()
		return nil, s.err("lock", err)
	}
	return func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, s.lockKey)
		conn.Release()
	}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) err(op string, err error) error {
	return &auth.PersistenceError{Op: op, Path: s.key, Err: err}
}
