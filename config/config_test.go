package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/wedding.db", cfg.Database.SQLitePath)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Minute, cfg.Server.StatsCacheTTL)
	assert.Equal(t, QueueDriverMemory, cfg.Server.QueueDriver)
	assert.Equal(t, 5, cfg.Server.QueueMaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Server.QueueRetryBackoff)
	assert.Equal(t, int64(10000), cfg.Server.QueueStreamMaxLen)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.Same(t, AppConfig, cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("STATS_CACHE_TTL", "30s")
	t.Setenv("QUEUE_MAX_RETRIES", "2")
	t.Setenv("QUEUE_RETRY_BACKOFF", "250ms")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://example.com, https://www.example.com")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Server.StatsCacheTTL)
	assert.Equal(t, 2, cfg.Server.QueueMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.QueueRetryBackoff)
	assert.Equal(t, []string{"https://example.com", "https://www.example.com"}, cfg.Server.CORSAllowOrigins)
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "6380", cfg.Redis.Port)
}
