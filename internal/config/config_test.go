package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		BotToken:             "test-token",
		DatabaseURL:          "postgres://localhost/vintedwatch",
		ScrapeInterval:       90 * time.Second,
		ListingsPerFetch:     20,
		MaxRequestsPerMinute: 10,
		WorkerCount:          3,
		Language:             "fr",
		HealthCheckEnabled:   true,
		HealthPort:           "8080",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing bot token",
			mutate:  func(c *Config) { c.BotToken = "" },
			wantErr: true,
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: true,
		},
		{
			name:    "interval below minimum",
			mutate:  func(c *Config) { c.ScrapeInterval = 10 * time.Second },
			wantErr: true,
		},
		{
			name:    "unsupported language",
			mutate:  func(c *Config) { c.Language = "de" },
			wantErr: true,
		},
		{
			name:    "invalid health port",
			mutate:  func(c *Config) { c.HealthPort = "70000" },
			wantErr: true,
		},
		{
			name: "health port ignored when disabled",
			mutate: func(c *Config) {
				c.HealthCheckEnabled = false
				c.HealthPort = "not-a-port"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func safeSetEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Failed to set env var %s: %v", key, err)
	}
}

func safeUnsetEnv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to unset env var %s: %v", key, err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"DISCORD_TOKEN", "DB_DSN", "SCRAPE_INTERVAL", "LANGUAGE"} {
		original := os.Getenv(key)
		defer func(key, original string) {
			if original != "" {
				safeSetEnv(t, key, original)
			} else {
				safeUnsetEnv(t, key)
			}
		}(key, original)
	}

	t.Run("missing required env vars", func(t *testing.T) {
		safeUnsetEnv(t, "DISCORD_TOKEN")
		safeUnsetEnv(t, "DB_DSN")
		_, err := Load()
		if err == nil {
			t.Error("Load() should fail when DISCORD_TOKEN is missing")
		}
	})

	t.Run("valid config with defaults", func(t *testing.T) {
		safeSetEnv(t, "DISCORD_TOKEN", "test-token")
		safeSetEnv(t, "DB_DSN", "postgres://localhost/vintedwatch")
		safeUnsetEnv(t, "SCRAPE_INTERVAL")
		safeUnsetEnv(t, "LANGUAGE")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		assert.Equal(t, "test-token", cfg.BotToken)
		assert.Equal(t, 90*time.Second, cfg.ScrapeInterval)
		assert.Equal(t, "fr", cfg.Language)
		assert.Equal(t, 20, cfg.ListingsPerFetch)
		assert.Equal(t, 10, cfg.MaxRequestsPerMinute)
		assert.Equal(t, "https://www.vinted.fr", cfg.BaseURL)
	})

	t.Run("plain integer durations are seconds", func(t *testing.T) {
		safeSetEnv(t, "DISCORD_TOKEN", "test-token")
		safeSetEnv(t, "DB_DSN", "postgres://localhost/vintedwatch")
		safeSetEnv(t, "SCRAPE_INTERVAL", "120")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		assert.Equal(t, 120*time.Second, cfg.ScrapeInterval)
	})
}
