package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 20*time.Second, cfg.CacheTTL)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "/media", cfg.MediaURL)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("MEDIA_URL", "/uploads/")
	t.Setenv("SITE_URL", "https://penhub.example/")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "/uploads", cfg.MediaURL)
	assert.Equal(t, "https://penhub.example", cfg.SiteURL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"DATABASE_DRIVER": "mysql",
		"CACHE_BACKEND":   "memcached",
		"PAGE_SIZE":       "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromViper(newViper())
			assert.Error(t, err)
		})
	}
}
