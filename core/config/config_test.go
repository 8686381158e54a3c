package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "records", cfg.Storage.Bucket)
	assert.Equal(t, 1024, cfg.Pool.QueueSize)
	assert.Equal(t, "relation-matcher-query-pool", cfg.Pool.Name)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "relation-matcher", cfg.Cache.Prefix)
	assert.True(t, cfg.Match.Parallel)
	assert.Equal(t, 0, cfg.Match.MaxBatchSize)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("POOL_WORKERS", "3")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_REDIS_ADDR", "cache:6379")
	t.Setenv("MATCH_MAX_BATCH_SIZE", "200")
	t.Setenv("MATCH_PARALLEL", "false")
	t.Setenv("MATCH_RETRIES", "2")
	t.Setenv("MATCH_RETRY_INTERVAL_MS", "250")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	eng := cfg.Engine()
	assert.Equal(t, 3, eng.Pool.Workers)
	assert.Equal(t, "redis", eng.Cache.Backend)
	assert.Equal(t, "cache:6379", eng.Cache.RedisAddr)
	assert.Equal(t, 200, eng.Match.MaxBatchSize)
	assert.False(t, eng.Match.Parallel)
	assert.Equal(t, 2, eng.Match.Retries)
	assert.Equal(t, int64(250), eng.Match.RetryInterval().Milliseconds())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nDATABASE_DRIVER=sqlite\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("DATABASE_DRIVER")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
