package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Source drivers
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the full process configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Source   SourceConfig   `mapstructure:"source"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	DB       DBConfig       `mapstructure:"db"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// SourceConfig selects where tables are read from
type SourceConfig struct {
	Driver  string        `mapstructure:"driver"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SupabaseConfig holds the two secrets the REST driver needs
type SupabaseConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

// DBConfig holds the Postgres DSN for the postgres driver
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// CacheConfig selects the table cache backend and its TTL
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

// Load reads configuration from path (if it exists) and PIVOT_* environment
// variables. The bare SUPABASE_URL / SUPABASE_KEY names are honoured too.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PIVOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", true)
	v.SetDefault("source.driver", DriverREST)
	v.SetDefault("source.timeout", "15s")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.key", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.redis_url", "redis://localhost:6379")

	if err := v.BindEnv("supabase.url", "PIVOT_SUPABASE_URL", "SUPABASE_URL"); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv("supabase.key", "PIVOT_SUPABASE_KEY", "SUPABASE_KEY"); err != nil {
		return Config{}, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("checking config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// Validate reports configuration the process cannot start without
func (c Config) Validate() error {
	var errs []error

	switch c.Source.Driver {
	case DriverREST:
		if strings.TrimSpace(c.Supabase.URL) == "" {
			errs = append(errs, errors.New("supabase.url (SUPABASE_URL) is required"))
		}
		if strings.TrimSpace(c.Supabase.Key) == "" {
			errs = append(errs, errors.New("supabase.key (SUPABASE_KEY) is required"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			errs = append(errs, errors.New("db.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.driver %q", c.Source.Driver))
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(c.Cache.RedisURL) == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}

	return errors.Join(errs...)
}
