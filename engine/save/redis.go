package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "boneyard:save:"

// RedisConfig holds the configuration for the Redis store.
type RedisConfig struct {
	Client *redis.Client
	Prefix string        // key prefix; defaults to "boneyard:save:"
	TTL    time.Duration // zero keeps saves forever
	Log    *slog.Logger
}

// Validate ensures all required dependencies are provided.
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if c.Client == nil {
		return errors.New("redis client is required")
	}
	if c.TTL < 0 {
		return errors.New("ttl cannot be negative")
	}
	return nil
}

// RedisStore keeps each save as a string value under prefix+name.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store over an existing client.
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	logger := cfg.Log
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisStore{client: cfg.Client, prefix: prefix, ttl: cfg.TTL, log: logger}, nil
}

// Put stores a save, replacing any previous one of the same name.
func (r *RedisStore) Put(ctx context.Context, name string, data []byte) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+name, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store save in Redis: %w", err)
	}
	r.log.Debug("save written", "store", "redis", "name", name, "bytes", len(data))
	return nil
}

// Get reads a save.
func (r *RedisStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, r.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get save from Redis: %w", err)
	}
	return data, nil
}

// List returns the names of every save, sorted.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan saves: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a save.
func (r *RedisStore) Delete(ctx context.Context, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	n, err := r.client.Del(ctx, r.prefix+name).Result()
	if err != nil {
		return fmt.Errorf("failed to delete save from Redis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
