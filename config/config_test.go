package config

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/boneyard/engine/save"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, filepath.Join(home, ".boneyard", "saves"), cfg.SaveDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BONEYARD_PLAIN", "true")
	t.Setenv("BONEYARD_SEED", "1224")
	t.Setenv("BONEYARD_STORE", "sqlite")
	t.Setenv("BONEYARD_SAVE_DIR", dir)
	t.Setenv("BONEYARD_REDIS_TTL", "90m")
	t.Setenv("BONEYARD_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Plain)
	assert.Equal(t, int64(1224), cfg.Seed)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, dir, cfg.SaveDir)
	assert.Equal(t, 90*time.Minute, cfg.RedisTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("BONEYARD_SEED", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{Store: StoreFile, LogLevel: "warn"}, false},
		{"redis", Config{Store: StoreRedis, LogLevel: "INFO"}, false},
		{"unknown store", Config{Store: "tape", LogLevel: "warn"}, true},
		{"bad level", Config{Store: StoreFile, LogLevel: "chatty"}, true},
		{"negative ttl", Config{Store: StoreRedis, LogLevel: "warn", RedisTTL: -time.Minute}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Config{LogLevel: "info"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "turn", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "turn=3")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("error")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, level)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  Config
		want any
	}{
		{"file", Config{Store: StoreFile, SaveDir: t.TempDir()}, &save.FileStore{}},
		{"sqlite", Config{Store: StoreSQLite, SaveDir: t.TempDir()}, &save.SQLiteStore{}},
		{"redis", Config{Store: StoreRedis, RedisAddr: mr.Addr()}, &save.RedisStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeFn, err := tt.cfg.OpenStore(ctx, nil)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeFn()) }()

			assert.IsType(t, tt.want, store)
			require.NoError(t, store.Put(ctx, "slot", []byte("{}")))
			names, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"slot"}, names)
		})
	}
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, closeFn, err := Config{Store: StoreRedis, RedisAddr: addr}.OpenStore(context.Background(), nil)
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
