package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DASHBOARD_CONFIG_DIR", dir)
	t.Setenv(SettingsEnvVar, "")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	for _, key := range []string{"PORT", "ENVIRONMENT", "DB_DRIVER", "DB_DSN", "LOG_FORMAT", "SESSION_SECRET", "RDS_ENDPOINT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Settings)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 12, cfg.Session.ExpiryHours)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProfileFileAndEnvironmentPrecedence(t *testing.T) {
	dir := isolate(t)
	profile := "staging: true\nport: \"9000\"\nlog_format: json\ndb_driver: postgres\ndb_dsn: postgres://localhost/dashboard\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte(profile), 0o644))

	t.Setenv(SettingsEnvVar, "staging")
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Settings)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/dashboard", cfg.Database.DSN)
}

func TestLoad_RejectsProfilePath(t *testing.T) {
	isolate(t)
	t.Setenv(SettingsEnvVar, "../etc/passwd")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"no connections", func(c *Config) { c.Database.MaxOpenConns = 0 }},
		{"production default secret", func(c *Config) { c.Environment = "production" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }},
		{"zero session hours", func(c *Config) { c.Session.ExpiryHours = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, AdaptConfigForServerless(cfg))
	assert.Equal(t, "./data/dashboard.db", cfg.Database.DSN)
	assert.Equal(t, "server", GetDeploymentMode())

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "dashboard")
	cfg = AdaptConfigForServerless(cfg)
	assert.Equal(t, "/tmp/dashboard.db", cfg.Database.DSN)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, "serverless", GetDeploymentMode())
	assert.True(t, DetectServerless().IsLambda)

	t.Setenv("RDS_ENDPOINT", "db.internal")
	t.Setenv("RDS_USERNAME", "app")
	cfg, err = Load()
	require.NoError(t, err)
	cfg = AdaptConfigForServerless(cfg)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "host=db.internal")
	assert.Contains(t, cfg.Database.DSN, "user=app")
}

func TestDatabaseConfig_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DatabaseConfig{Driver: DriverSQLite, DSN: "file:" + filepath.Join(dir, "nested", "app.db") + "?_fk=1"}
	require.NoError(t, cfg.EnsureDirectories())

	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	memory := DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"}
	assert.NoError(t, memory.EnsureDirectories())
}
