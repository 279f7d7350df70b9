package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "GUEST_LIST", cfg.Guests.EnvVar)
	require.Empty(t, cfg.Guests.File)
	require.Equal(t, DefaultEndpoint, cfg.RSVP.Endpoint)
	require.Equal(t, 10*time.Second, cfg.RSVP.Timeout)
	require.Equal(t, 10, cfg.RSVP.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.RSVP.RateLimit.Window)
	require.Equal(t, 5*time.Second, cfg.RSVP.Celebration)
	require.True(t, cfg.Storage.Enabled)
	require.Equal(t, "data/rsvp.sqlite", cfg.Storage.Path)
	require.False(t, cfg.WhatsApp.Enabled)
	require.Equal(t, "44", cfg.WhatsApp.CountryCode)
	require.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	require.Equal(t, 10000, cfg.Sessions.Max)
	require.False(t, cfg.Server.TrustProxy)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "https://wedding.example.com", cfg.Server.BaseURL)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	require.True(t, cfg.Server.SecureCookies)
	require.Equal(t, "/run/secrets/guests.json", cfg.Guests.File)
	require.Equal(t, "GUEST_LIST", cfg.Guests.EnvVar)
	require.Equal(t, "https://forms.example.com/f/abc", cfg.RSVP.Endpoint)
	require.Equal(t, 3*time.Second, cfg.RSVP.Timeout)
	require.Equal(t, 4, cfg.RSVP.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.RSVP.RateLimit.Window)
	require.Equal(t, 6*time.Second, cfg.RSVP.Celebration)
	require.False(t, cfg.Storage.Enabled)
	require.True(t, cfg.WhatsApp.Enabled)
	require.Equal(t, "+44 7700 900123", cfg.WhatsApp.NotifyPhone)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("WEDDING_SERVER_PORT", "7000")
	t.Setenv("WEDDING_RSVP_ENDPOINT", "https://env.example.com")
	t.Setenv("WEDDING_STORAGE_ENABLED", "false")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "https://env.example.com", cfg.RSVP.Endpoint)
	require.False(t, cfg.Storage.Enabled)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 0\n"), 0644))

	_, err := LoadConfig(dir)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0644))
	_, err = LoadConfig(dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return *cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unparsable base url", func(c *Config) { c.Server.BaseURL = "://bad url" }, "server.base_url"},
		{"relative base url", func(c *Config) { c.Server.BaseURL = "wedding.example.com" }, "server.base_url"},
		{"unparsable endpoint", func(c *Config) { c.RSVP.Endpoint = "::not a url" }, "rsvp.endpoint"},
		{"blank endpoint", func(c *Config) { c.RSVP.Endpoint = " " }, "rsvp.endpoint"},
		{"ftp endpoint", func(c *Config) { c.RSVP.Endpoint = "ftp://forms.example.com/f" }, "rsvp.endpoint"},
		{"zero rsvp timeout", func(c *Config) { c.RSVP.Timeout = 0 }, "rsvp.timeout"},
		{"negative shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, "server.shutdown_timeout"},
		{"zero session ttl", func(c *Config) { c.Sessions.TTL = 0 }, "sessions.ttl"},
		{"zero rate window", func(c *Config) { c.RSVP.RateLimit.Window = 0 }, "rsvp.rate_limit.window"},
		{"negative rate requests", func(c *Config) { c.RSVP.RateLimit.Requests = -1 }, "rsvp.rate_limit.requests"},
		{"negative session cap", func(c *Config) { c.Sessions.Max = -1 }, "sessions.max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("WEDDING_RSVP_TIMEOUT", "0s")
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "rsvp.timeout")
}
