package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8081

[database]
host = "db"
user = "clinic"
password = "secret"
dbname = "appointments"

[logs]
level = "debug"

[metrics]
enabled = true

[locking]
backend = "redis"
wait_timeout_ms = 500

[redis]
addr = "redis:6379"

[booking]
max_advance_days = 60
timezone = "Europe/Moscow"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout, "defaults survive partial files")
	assert.Equal(t, "host=db port=5432 user=clinic password=secret dbname=appointments sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, LockBackendRedis, cfg.Locking.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Locking.WaitTimeout())
	assert.Equal(t, 5*time.Second, cfg.Locking.TTL())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 60, cfg.Booking.MaxAdvanceDays)
	assert.Equal(t, "Europe/Moscow", cfg.Booking.Location().String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }},
		{name: "dbname", mutate: func(c *Config) { c.Database.DBName = "" }},
		{name: "backend", mutate: func(c *Config) { c.Locking.Backend = "zookeeper" }},
		{name: "redis addr", mutate: func(c *Config) { c.Locking.Backend = LockBackendRedis; c.Redis.Addr = "" }},
		{name: "negative advance", mutate: func(c *Config) { c.Booking.MaxAdvanceDays = -1 }},
		{name: "timezone", mutate: func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
		{name: "metrics path", mutate: func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.Database.DBName = "appointments"
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
