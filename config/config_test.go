package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("POSTBOARD_CONFIG", path)
	return path
}

func TestLoadDefaults(t *testing.T) {
	writeConfig(t, "log:\n  level: debug\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8250, cfg.Server.Port)
	assert.Equal(t, ":8250", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "postboard.db", cfg.Database.DSN)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadFileAndEnv(t *testing.T) {
	writeConfig(t, `
server:
  port: 9000
database:
  driver: postgres
  dsn: host=db user=app dbname=postboard sslmode=disable
redis:
  enabled: true
  addr: cache:6379
  ttl: 30s
`)
	t.Setenv("POSTBOARD_SERVER_PORT", "9100")
	t.Setenv("POSTBOARD_SERVER_TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.1")
	t.Setenv("POSTBOARD_SENTRY_DSN", "https://key@sentry.example.com/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "https://key@sentry.example.com/1", cfg.Sentry.DSN)
}

func TestLoadRejectsInvalid(t *testing.T) {
	writeConfig(t, "database:\n  driver: mysql\n")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8250},
			Database: DatabaseConfig{Driver: "sqlite", DSN: "x.db"},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cases := map[string]func(*Config){
		"port":      func(c *Config) { c.Server.Port = 0 },
		"proxies":   func(c *Config) { c.Server.TrustedProxies = []string{"not-an-ip"} },
		"driver":    func(c *Config) { c.Database.Driver = "oracle" },
		"dsn":       func(c *Config) { c.Database.DSN = "" },
		"redis":     func(c *Config) { c.Redis = RedisConfig{Enabled: true} },
		"ratelimit": func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true, RPS: 0, Burst: 1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
