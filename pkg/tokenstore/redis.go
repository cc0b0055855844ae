package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"github.com/darmiel/cftools/pkg/auth"
)

var (
	_ auth.Store  = (*RedisStore)(nil)
	_ auth.Locker = (*RedisStore)(nil)
)

const (
	defaultRedisPrefix  = "cftools:token:"
	defaultRedisLockTTL = 30 * time.Second
)

// releaseLockScript deletes the lock key only if it still holds our lock id.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr,omitempty"`
	Username string        `mapstructure:"username" yaml:"username,omitempty"`
	Password string        `mapstructure:"password" yaml:"password,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db,omitempty"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix,omitempty"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl,omitempty"`
}

// RedisStore shares the token between hosts through a redis key.
// Refreshes are serialized with a SET NX lock that expires after LockTTL.
type RedisStore struct {
	client  *redis.Client
	key     string
	lockTTL time.Duration
}

// NewRedis connects to redis and stores the token under prefix+key.
func NewRedis(ctx context.Context, cfg RedisConfig, key string) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	if key == "" {
		return nil, fmt.Errorf("redis token key required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultRedisLockTTL
	}
	return &RedisStore{
		client:  client,
		key:     prefix + key,
		lockTTL: lockTTL,
	}, nil
}

func (s *RedisStore) Location() string {
	return fmt.Sprintf("redis:%s/%s", s.client.Options().Addr, s.key)
}

func (s *RedisStore) Load(ctx context.Context) (*auth.AuthToken, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrNoToken
		}
		return nil, s.err("read", err)
	}
	return decodeRecord(raw, func(err error) error {
		return s.err("decode", err)
	})
}

func (s *RedisStore) Save(ctx context.Context, token auth.AuthToken) error {
	data, err := json.Marshal(auth.NewRecord(token))
	if err != nil {
		return s.err("encode", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return s.err("write", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return s.err("clear", err)
	}
	return nil
}

func (s *RedisStore) Lock(ctx context.Context) (func(), error) {
	lockKey := s.key + ":lock"
	id := xid.New().String()

	ticker := time.NewTicker(lockRetryDelay)
	defer ticker.Stop()

	for {
		ok, err := s.client.SetNX(ctx, lockKey, id, s.lockTTL).Result()
		if err != nil {
			return nil, s.err("lock", err)
		}
		if ok {
			return func() {
				// the caller's context may already be cancelled
				_ = releaseLockScript.Run(context.Background(), s.client, []string{lockKey}, id).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) err(op string, err error) error {
	return &auth.PersistenceError{Op: op, Path: s.key, Err: err}
}
