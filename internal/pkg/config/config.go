package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	StaticDir string `env:"STATIC_DIR, default=./web"`

	Backend  BackendConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Activity ActivityConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8088/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=30s"`
}

type SessionConfig struct {
	TTL         time.Duration `env:"SESSION_TTL,          default=24h"`
	RememberTTL time.Duration `env:"SESSION_REMEMBER_TTL, default=720h"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL, default=10m"`
}

type ActivityConfig struct {
	Workers   int           `env:"ACTIVITY_WORKERS,   default=4"`
	Retention time.Duration `env:"ACTIVITY_RETENTION, default=2160h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Production reports whether the server runs with ENV=production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
