// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	// SeedOnStart loads the demo dataset when the store has no users.
	SeedOnStart bool `env:"SEED_ON_START, default=true"`

	Store     StoreConfig
	Assistant AssistantConfig
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is one of memory, sqlite, redis or mongo.
	Backend   string `env:"STORE_BACKEND,    default=sqlite"`
	KeyPrefix string `env:"STORE_KEY_PREFIX, default=therapy_ai_"`

	SQLite SQLiteConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=caseload.db"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=caseload"`
	Collection string `env:"MONGO_COLLECTION, default=kv"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// AssistantConfig tunes the scripted reply queue.
type AssistantConfig struct {
	ReplyDelay time.Duration `env:"ASSISTANT_REPLY_DELAY, default=500ms"`
	Workers    int           `env:"ASSISTANT_WORKERS,     default=4"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, cfg.validate()
}

// LoadWith reads configuration from the given variables instead of the
// process environment.
func LoadWith(ctx context.Context, vars map[string]string) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(vars),
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "sqlite", "redis", "mongo":
	default:
		return fmt.Errorf("load config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.IsProduction() && c.JWTSecret == "change-me" {
		return fmt.Errorf("load config: JWT_SECRET must be set in production")
	}
	return nil
}
