package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, time.Second, cfg.PostgreSQL.ConnectDelay)
	assert.Empty(t, cfg.Catalog.Path)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("STORE_SEED_FILE", "seed.json")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "10")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_CACHE_TTL", "30s")
	t.Setenv("PG_AUTO_MIGRATE", "true")
	t.Setenv("CATALOG_PATH", "/etc/homesearch/catalog.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "seed.json", cfg.Store.SeedFile)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.PostgreSQL.AutoMigrate)
	assert.Equal(t, "/etc/homesearch/catalog.yaml", cfg.Catalog.Path)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("METRICS_ENABLED", "maybe")
	t.Setenv("PG_CONNECT_DELAY", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, time.Second, cfg.PostgreSQL.ConnectDelay)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}},
		{name: "default above max", env: map[string]string{"SEARCH_DEFAULT_LIMIT": "500"}},
		{name: "zero limit", env: map[string]string{"SEARCH_MAX_LIMIT": "-1"}},
		{name: "redis without addr", env: map[string]string{"REDIS_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Database: "homes", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=homes sslmode=require", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetPostgreSQLDSN())
}
