package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "ADDR", "DATABASE_URL", "POSTGRES_URI", "API_KEY",
		"SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://gtd@localhost/gtd")
	t.Setenv("API_KEY", "secret")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://gtd@localhost/gtd", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_PostgresURIAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_URI", "postgres://alias@localhost/gtd")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://alias@localhost/gtd", cfg.DatabaseURL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "gtd.yaml")
	content := `
addr: ":7000"
database_url: postgres://file@localhost/gtd
api_key: from-file
logging:
  level: warn
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "postgres://file@localhost/gtd", cfg.DatabaseURL)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Addr:            ":8080",
		ShutdownTimeout: time.Second,
		Logging:         LoggingConfig{Level: "verbose", Format: "xml"},
	}

	errs := cfg.Validate()
	assert.Len(t, errs, 4)

	cfg.DatabaseURL = "postgres://localhost/gtd"
	cfg.APIKey = "secret"
	cfg.Logging = LoggingConfig{Level: "info", Format: "text"}
	assert.Empty(t, cfg.Validate())
}

func TestLoad_AllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestValidate_AllowedOrigins(t *testing.T) {
	base := func(env string, origins ...string) *Config {
		return &Config{
			AppEnv:          env,
			Addr:            ":8080",
			DatabaseURL:     "postgres://localhost/gtd",
			APIKey:          "secret",
			AllowedOrigins:  origins,
			ShutdownTimeout: time.Second,
			Logging:         LoggingConfig{Level: "info", Format: "text"},
		}
	}

	assert.Empty(t, base("production", "https://app.example.com").Validate())
	assert.Empty(t, base("development", "http://localhost:3000").Validate())
	assert.Len(t, base("production", "http://localhost:3000").Validate(), 1)
	assert.Len(t, base("development", "*").Validate(), 1)
}
