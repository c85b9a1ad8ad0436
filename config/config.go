// Package config reads Boneyard settings from BONEYARD_* environment
// variables and builds the logger and save store they describe.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	redis "github.com/redis/go-redis/v9"

	"github.com/nathoo/boneyard/engine/save"
)

// Store backends accepted by Config.Store.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds play settings. Cobra flags override the environment.
type Config struct {
	Plain      bool          `env:"BONEYARD_PLAIN"`
	Script     string        `env:"BONEYARD_SCRIPT"`
	Trace      bool          `env:"BONEYARD_TRACE"`
	Seed       int64         `env:"BONEYARD_SEED"`
	Store      string        `env:"BONEYARD_STORE"       envDefault:"file"`
	SaveDir    string        `env:"BONEYARD_SAVE_DIR"`
	RedisAddr  string        `env:"BONEYARD_REDIS_ADDR"  envDefault:"localhost:6379"`
	RedisTTL   time.Duration `env:"BONEYARD_REDIS_TTL"`
	SQLitePath string        `env:"BONEYARD_SQLITE_PATH"`
	LogLevel   string        `env:"BONEYARD_LOG_LEVEL"   envDefault:"warn"`
}

// Load parses the environment and fills path defaults under ~/.boneyard.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SaveDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.SaveDir = filepath.Join(home, ".boneyard", "saves")
	}
	return cfg, nil
}

// Validate checks the store backend and log level.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want file, redis or sqlite)", c.Store)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("redis ttl cannot be negative")
	}
	return nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// OpenStore opens the configured save store. The returned close function
// releases its connection and is never nil.
func (c Config) OpenStore(ctx context.Context, logger *slog.Logger) (save.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Store {
	case StoreFile, "":
		return save.NewFileStore(c.SaveDir, logger), noop, nil

	case StoreSQLite:
		path := c.SQLitePath
		if path == "" {
			if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
				return nil, noop, fmt.Errorf("create save dir: %w", err)
			}
			path = filepath.Join(c.SaveDir, "saves.db")
		}
		store, err := save.OpenSQLite(path, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("connect to redis at %s: %w", c.RedisAddr, err)
		}
		store, err := save.NewRedisStore(&save.RedisConfig{Client: client, TTL: c.RedisTTL, Log: logger})
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown store %q", c.Store)
	}
}
