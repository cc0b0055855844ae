package tokenstore

import (
	"context"
	"fmt"

	"github.com/darmiel/cftools/pkg/auth"
)

// Driver identifiers supported by New.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// Config selects and configures a token store backend.
type Config struct {
	Driver string `mapstructure:"store" yaml:"store"`

	// Path of the token file for the file driver.
	// Defaults to DefaultFilePath.
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// Key separates tokens of different applications in shared backends.
	// Usually the application id.
	Key string `mapstructure:"key" yaml:"key,omitempty"`

	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis,omitempty"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite" yaml:"sqlite,omitempty"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres,omitempty"`
}

// New creates a token store based on the provided configuration.
func New(ctx context.Context, cfg Config) (auth.Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	switch driver {
	case DriverFile:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return NewFile(path)
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(ctx, cfg.Redis, cfg.Key)
	case DriverSQLite:
		return NewSQLite(cfg.SQLite.Path, cfg.Key)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.Postgres, cfg.Key)
	default:
		return nil, fmt.Errorf("unsupported token store driver: %s", driver)
	}
}

// Drivers lists the names accepted by New.
func Drivers() []string {
	return []string{DriverFile, DriverMemory, DriverRedis, DriverSQLite, DriverPostgres}
}
