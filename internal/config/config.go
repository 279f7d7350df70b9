// Package config loads runtime settings from config.yaml, WEDDING_* env vars
// and defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultEndpoint is the form backend RSVPs are posted to.
const DefaultEndpoint = "https://formspree.io/f/xgvpanpe"

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Guests   GuestsConfig   `mapstructure:"guests"`
	Content  ContentConfig  `mapstructure:"content"`
	RSVP     RSVPConfig     `mapstructure:"rsvp"`
	Storage  StorageConfig  `mapstructure:"storage"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	BaseURL         string        `mapstructure:"base_url"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SecureCookies   bool          `mapstructure:"secure_cookies"`
	// TrustProxy keys rate limits on the first X-Forwarded-For hop. Only
	// enable it behind a proxy that overwrites the header.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// GuestsConfig names the guest directory sources. EnvVar is read without the
// WEDDING_ prefix.
type GuestsConfig struct {
	EnvVar string `mapstructure:"env_var"`
	File   string `mapstructure:"file"`
}

// ContentConfig points at a TOML file overriding the bundled content.
type ContentConfig struct {
	Path string `mapstructure:"path"`
}

type RSVPConfig struct {
	Endpoint    string          `mapstructure:"endpoint"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Celebration time.Duration   `mapstructure:"celebration"`
}

// RateLimitConfig is a fixed window per client IP.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type WhatsAppConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DataDir     string `mapstructure:"data_dir"`
	NotifyPhone string `mapstructure:"notify_phone"`
	CountryCode string `mapstructure:"country_code"`
}

type SessionsConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	// Max caps live sessions; the one closest to expiry is evicted first.
	Max int `mapstructure:"max"`
}

// LoadConfig reads config.yaml from ./config and any extra paths. A missing
// file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("WEDDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if err := validateURL("server.base_url", c.Server.BaseURL); err != nil {
		return err
	}
	if err := validateURL("rsvp.endpoint", c.RSVP.Endpoint); err != nil {
		return err
	}
	if c.RSVP.RateLimit.Requests < 0 {
		return fmt.Errorf("config: invalid rsvp.rate_limit.requests %d", c.RSVP.RateLimit.Requests)
	}
	if c.Sessions.Max < 0 {
		return fmt.Errorf("config: invalid sessions.max %d", c.Sessions.Max)
	}

	durations := []struct {
		key string
		d   time.Duration
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"rsvp.timeout", c.RSVP.Timeout},
		{"rsvp.rate_limit.window", c.RSVP.RateLimit.Window},
		{"sessions.ttl", c.Sessions.TTL},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", d.key, d.d)
		}
	}
	return nil
}

func validateURL(key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("config: %s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("guests.env_var", "GUEST_LIST")
	v.SetDefault("guests.file", "")

	v.SetDefault("content.path", "")

	v.SetDefault("rsvp.endpoint", DefaultEndpoint)
	v.SetDefault("rsvp.timeout", "10s")
	v.SetDefault("rsvp.rate_limit.requests", 10)
	v.SetDefault("rsvp.rate_limit.window", "1m")
	v.SetDefault("rsvp.celebration", "5s")

	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", "data/rsvp.sqlite")

	v.SetDefault("whatsapp.enabled", false)
	v.SetDefault("whatsapp.data_dir", "data")
	v.SetDefault("whatsapp.notify_phone", "")
	v.SetDefault("whatsapp.country_code", "44")

	v.SetDefault("sessions.ttl", "2h")
	v.SetDefault("sessions.cleanup_interval", "5m")
	v.SetDefault("sessions.max", 10000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
