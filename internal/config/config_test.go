package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.Catalog.PageSize)
	assert.Equal(t, "en", cfg.Catalog.Language)
	assert.Equal(t, 30*time.Minute, cfg.Catalog.SessionTTL)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CATALOG_PAGE_SIZE", "24")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
}

func TestLoadRejectsZeroPageSize(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CATALOG_PAGE_SIZE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5433", User: "shop", Password: "p@ss", Name: "catalog", SSLMode: "disable"}
	assert.Equal(t, "postgres://shop:p%40ss@db:5433/catalog?sslmode=disable", d.DSN())

	d.URL = "postgres://override"
	assert.Equal(t, "postgres://override", d.DSN())
}
