package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/darmiel/cftools/pkg/auth"
	"github.com/darmiel/cftools/pkg/client"
	"github.com/darmiel/cftools/pkg/tokenstore"
)

const EnvPrefix = "CFTOOLS"

// viper keys
const (
	ApplicationIDKey   = "application_id"
	SecretKey          = "secret"
	BaseURLKey         = "base_url"
	ServerAPIIDKey     = "server_api_id"
	BanlistIDKey       = "banlist_id"
	GameIdentifierKey  = "game.identifier"
	GameIPKey          = "game.ip"
	GamePortKey        = "game.port"
	TokenStoreKey      = "token.store"
	TokenPathKey       = "token.path"
	TokenStalenessKey  = "token.staleness"
	TokenKeyKey        = "token.key"
	RedisAddrKey       = "token.redis.addr"
	RedisUsernameKey   = "token.redis.username"
	RedisPasswordKey   = "token.redis.password"
	RedisDBKey         = "token.redis.db"
	RedisPrefixKey     = "token.redis.prefix"
	RedisLockTTLKey    = "token.redis.lock_ttl"
	SQLitePathKey      = "token.sqlite.path"
	PostgresDSNKey     = "token.postgres.dsn"
	HTTPTimeoutKey     = "http.timeout"
	HTTPConnectTimeout = "http.connect_timeout"
	AuditPathKey       = "audit.path"
	OutputKey          = "output"
)

// Keys lists every setting, so that viper.AutomaticEnv picks them up on Unmarshal.
var Keys = []string{
	ApplicationIDKey, SecretKey, BaseURLKey, ServerAPIIDKey, BanlistIDKey,
	GameIdentifierKey, GameIPKey, GamePortKey,
	TokenStoreKey, TokenPathKey, TokenStalenessKey, TokenKeyKey,
	RedisAddrKey, RedisUsernameKey, RedisPasswordKey, RedisDBKey, RedisPrefixKey, RedisLockTTLKey,
	SQLitePathKey, PostgresDSNKey,
	HTTPTimeoutKey, HTTPConnectTimeout, AuditPathKey, OutputKey,
}

var ErrMissingCredential = errors.New("application_id and secret are required")

type GameConfig struct {
	Identifier string `mapstructure:"identifier" yaml:"identifier,omitempty"`
	IP         string `mapstructure:"ip" yaml:"ip,omitempty"`
	Port       string `mapstructure:"port" yaml:"port,omitempty"`
}

// Configured reports whether ip and port are set. The identifier defaults to DayZ.
func (g GameConfig) Configured() bool {
	return g.IP != "" && g.Port != ""
}

type TokenConfig struct {
	tokenstore.Config `mapstructure:",squash" yaml:",inline"`

	Staleness time.Duration `mapstructure:"staleness" yaml:"staleness"`
}

type HTTPConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

type AuditConfig struct {
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// Config is the effective configuration of the CLI.
type Config struct {
	ApplicationID string      `mapstructure:"application_id" yaml:"application_id"`
	Secret        string      `mapstructure:"secret" yaml:"secret"`
	BaseURL       string      `mapstructure:"base_url" yaml:"base_url"`
	ServerAPIID   string      `mapstructure:"server_api_id" yaml:"server_api_id,omitempty"`
	BanlistID     string      `mapstructure:"banlist_id" yaml:"banlist_id,omitempty"`
	Game          GameConfig  `mapstructure:"game" yaml:"game"`
	Token         TokenConfig `mapstructure:"token" yaml:"token"`
	HTTP          HTTPConfig  `mapstructure:"http" yaml:"http"`
	Audit         AuditConfig `mapstructure:"audit" yaml:"audit"`
	Output        string      `mapstructure:"output" yaml:"output"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(BaseURLKey, client.DefaultBaseURL)
	v.SetDefault(GameIdentifierKey, "1")
	v.SetDefault(TokenStoreKey, tokenstore.DriverFile)
	v.SetDefault(TokenStalenessKey, auth.DefaultStaleness)
	v.SetDefault(HTTPTimeoutKey, client.DefaultTimeout)
	v.SetDefault(HTTPConnectTimeout, client.DefaultConnectTimeout)
	v.SetDefault(OutputKey, "table")
}

// LoadDotEnv loads a .env file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// Load decodes the settings of v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	// make env-only values visible to AllSettings
	for _, key := range Keys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Token.Key == "" {
		cfg.Token.Key = cfg.ApplicationID
	}
	if cfg.Token.Driver == tokenstore.DriverFile && cfg.Token.Path == "" {
		if cfg.Token.Path, err = tokenstore.DefaultFilePath(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Credential returns the application credential.
func (c *Config) Credential() auth.Credential {
	return auth.Credential{
		ApplicationID: c.ApplicationID,
		Secret:        c.Secret,
	}
}

// Validate checks the values that can be checked without network access.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error
	if c.ApplicationID == "" || c.Secret == "" {
		errs = append(errs, ErrMissingCredential)
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL))
	}
	if !slices.Contains(tokenstore.Drivers(), c.Token.Driver) {
		errs = append(errs, fmt.Errorf("token.store %q is not one of %v", c.Token.Driver, tokenstore.Drivers()))
	}
	switch c.Token.Driver {
	case tokenstore.DriverRedis:
		if c.Token.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("token.redis.addr is required for the redis store"))
		}
	case tokenstore.DriverSQLite:
		if c.Token.SQLite.Path == "" {
			errs = append(errs, fmt.Errorf("token.sqlite.path is required for the sqlite store"))
		}
	case tokenstore.DriverPostgres:
		if c.Token.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("token.postgres.dsn is required for the postgres store"))
		}
	}
	if c.Token.Staleness <= 0 {
		errs = append(errs, fmt.Errorf("token.staleness must be positive, got %s", c.Token.Staleness))
	}
	if c.HTTP.Timeout <= 0 || c.HTTP.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeouts must be positive"))
	}
	if c.Game.IP != "" && net.ParseIP(c.Game.IP).To4() == nil {
		errs = append(errs, fmt.Errorf("game.ip %q is not an IPv4 address", c.Game.IP))
	}
	if c.Game.Port != "" {
		if port, err := strconv.Atoi(c.Game.Port); err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("game.port %q is not a valid port", c.Game.Port))
		}
	}
	if !slices.Contains([]string{"table", "json", "yaml"}, c.Output) {
		errs = append(errs, fmt.Errorf("output %q is not one of table, json, yaml", c.Output))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe for printing.
func (c *Config) Redacted() Config {
	cpy := *c
	cpy.Secret = redact(cpy.Secret)
	cpy.Token.Redis.Password = redact(cpy.Token.Redis.Password)
	if cpy.Token.Postgres.DSN != "" {
		if u, err := url.Parse(cpy.Token.Postgres.DSN); err == nil && u.User != nil {
			cpy.Token.Postgres.DSN = u.Redacted()
		} else {
			cpy.Token.Postgres.DSN = redact(cpy.Token.Postgres.DSN)
		}
	}
	return cpy
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
