package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadParsesDatabaseSettings(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
database:
  host: db.local
  port: "5433"
  user: kinobot
  name: kinobot
  sslmode: disable
  max_connections: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "kinobot", cfg.Database.User)
	assert.Equal(t, 8, cfg.Database.MaxConnections)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
}

func TestNormalizeRejectsUnknownStorageDriver(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Storage.Driver = "redis"

	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestNormalizeRequiresAPIBaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Storage.Driver = StorageDriverAPI

	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Admins = []int64{10, 20}

	assert.True(t, cfg.IsAdmin(10))
	assert.False(t, cfg.IsAdmin(30))
	assert.False(t, (*Config)(nil).IsAdmin(10))
}
