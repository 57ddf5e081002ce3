// Package config loads application configuration from config files and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                    string `mapstructure:"APP_ENV"`
	Port                   string `mapstructure:"PORT"`
	SiteName               string `mapstructure:"SITE_NAME"`
	SiteURL                string `mapstructure:"SITE_URL"`
	DBDriver               string `mapstructure:"DB_DRIVER"`
	DatabaseURL            string `mapstructure:"DATABASE_URL"`
	SessionSecret          string `mapstructure:"SESSION_SECRET"`
	SessionName            string `mapstructure:"SESSION_NAME"`
	SessionTTLHours        int    `mapstructure:"SESSION_TTL_HOURS"`
	AdminEmail             string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword          string `mapstructure:"ADMIN_PASSWORD"`
	AdminName              string `mapstructure:"ADMIN_NAME"`
	PasswordHashIterations int    `mapstructure:"PASSWORD_HASH_ITERATIONS"`
	RateLimitPerMinute     int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads config.yml (and config.<APP_ENV>.yml when APP_ENV is not
// development), then overlays environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// the base file is optional
	_ = v.ReadInConfig()

	env := strings.TrimSpace(v.GetString("APP_ENV"))
	if env != "" && env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config.%s.yml: %w", env, err)
			}
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("SITE_NAME", "Inkwell")
	v.SetDefault("SITE_URL", "http://localhost:5000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "blog.db")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_NAME", "inkwell_session")
	v.SetDefault("SESSION_TTL_HOURS", 24*7)
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_NAME", "Admin")
	v.SetDefault("PASSWORD_HASH_ITERATIONS", 600000)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
}

// IsProduction reports whether strict production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SessionTTL is the lifetime of a login session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.SessionTTLHours <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}
	if c.PasswordHashIterations <= 0 {
		return errors.New("PASSWORD_HASH_ITERATIONS must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.AdminPassword != "" && c.AdminEmail == "" {
		return errors.New("ADMIN_PASSWORD requires ADMIN_EMAIL")
	}

	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver != "postgres" {
			return errors.New("DB_DRIVER must be postgres in production")
		}
	} else if len(c.SessionSecret) < 32 {
		slog.Warn("SESSION_SECRET is shorter than 32 characters; use a stronger secret for production")
	}
	return nil
}
