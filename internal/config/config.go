package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SettingsEnvVar selects the settings profile; it is read once at process start
const SettingsEnvVar = "DASHBOARD_SETTINGS"

const insecureSessionSecret = "development-only-session-secret-do-not-deploy"

// Config holds all configuration for the application
type Config struct {
	Environment string
	Settings    string
	Port        string
	Database    DatabaseConfig
	Session     SessionConfig
	Log         LogConfig
	Tracing     TracingConfig
	RateLimit   RateLimitConfig
}

// SessionConfig holds the signed session cookie configuration
type SessionConfig struct {
	Secret      string
	ExpiryHours int
	CookieName  string
	Secure      bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Exporter    string // "none", "stdout" or "otlp"
	ServiceName string
}

// RateLimitConfig limits login attempts per client
type RateLimitConfig struct {
	LoginPerMinute int
}

// Load loads configuration from .env, the selected settings profile and the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	profile := GetEnv(SettingsEnvVar, "development")
	if err := mergeProfile(v, profile); err != nil {
		return nil, err
	}

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Settings:    profile,
		Port:        v.GetString("PORT"),
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			ConnectAttempts: v.GetInt("DB_CONNECT_ATTEMPTS"),
		},
		Session: SessionConfig{
			Secret:      v.GetString("SESSION_SECRET"),
			ExpiryHours: v.GetInt("SESSION_HOURS"),
			CookieName:  v.GetString("SESSION_COOKIE_NAME"),
			Secure:      v.GetBool("SESSION_COOKIE_SECURE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Tracing: TracingConfig{
			Exporter:    v.GetString("TRACING_EXPORTER"),
			ServiceName: v.GetString("SERVICE_NAME"),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_DSN", "./data/dashboard.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_CONNECT_ATTEMPTS", 3)
	v.SetDefault("SESSION_SECRET", insecureSessionSecret)
	v.SetDefault("SESSION_HOURS", 12)
	v.SetDefault("SESSION_COOKIE_NAME", "dashboard_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TRACING_EXPORTER", "none")
	v.SetDefault("SERVICE_NAME", "order-dashboard")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
}

// mergeProfile merges <config dir>/<profile>.yaml when it exists; environment variables still win
func mergeProfile(v *viper.Viper, profile string) error {
	if strings.ContainsAny(profile, `/\`) {
		return fmt.Errorf("invalid settings profile %q", profile)
	}

	path := filepath.Join(GetEnv("DASHBOARD_CONFIG_DIR", "config"), profile+".yaml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read settings profile %s: %w", path, err)
	}
	return nil
}

// Validate checks the values the application cannot start without
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret cannot be empty")
	}
	if c.IsProduction() && (len(c.Session.Secret) < 32 || c.Session.Secret == insecureSessionSecret) {
		return fmt.Errorf("session secret must be set to at least 32 characters in production")
	}
	if c.Session.ExpiryHours < 1 {
		return fmt.Errorf("session hours must be at least 1")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported tracing exporter: %s", c.Tracing.Exporter)
	}
	return nil
}

// IsProduction reports whether the production environment is selected
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
