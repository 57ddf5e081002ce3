package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                    "development",
		Port:                   "5000",
		DBDriver:               "sqlite",
		DatabaseURL:            "blog.db",
		SessionSecret:          "a-session-secret-that-is-long-enough-1234",
		SessionTTLHours:        24,
		PasswordHashIterations: 1000,
		RateLimitPerMinute:     60,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.SessionSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, true},
		{"zero ttl", func(c *Config) { c.SessionTTLHours = 0 }, true},
		{"zero iterations", func(c *Config) { c.PasswordHashIterations = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, true},
		{"admin password without email", func(c *Config) { c.AdminPassword = "pw" }, true},
		{"admin email and password", func(c *Config) { c.AdminEmail = "a@x.com"; c.AdminPassword = "pw" }, false},
		{"short secret allowed outside production", func(c *Config) { c.SessionSecret = "short" }, false},
		{"production with default secret", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.SessionSecret = defaultSessionSecret
		}, true},
		{"production with short secret", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.SessionSecret = "short"
		}, true},
		{"production on sqlite", func(c *Config) { c.Env = "prod" }, true},
		{"production on postgres", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("SESSION_TTL_HOURS", "2")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "blog.db", c.DatabaseURL)
	assert.Equal(t, 2*time.Hour, c.SessionTTL())
	assert.Equal(t, 600000, c.PasswordHashIterations)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	assert.False(t, c.IsProduction())
}
