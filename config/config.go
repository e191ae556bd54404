// Package config loads server settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Config struct {
	AppEnv      string `mapstructure:"app_env" yaml:"app_env"`
	Addr        string `mapstructure:"addr" yaml:"addr"`
	DatabaseURL string `mapstructure:"database_url" yaml:"database_url"`

	// APIKey is compared against the access_token header of every resource request.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// AllowedOrigins lists the origins that may call the API from a browser.
	// Empty means no cross-origin access.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	Logging         LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// IsProduction reports whether the server runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the configuration. Outside production a .env file in the working
// directory is loaded first; it never overrides variables already set.
// Environment variables take precedence over configFile, if one is given.
func Load(configFile string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// a missing .env is fine
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetDefault("app_env", "development")
	v.SetDefault("addr", ":8080")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	bindings := map[string][]string{
		"app_env":          {"APP_ENV"},
		"addr":             {"ADDR"},
		"database_url":     {"DATABASE_URL", "POSTGRES_URI"},
		"api_key":          {"API_KEY"},
		"allowed_origins":  {"ALLOWED_ORIGINS"},
		"shutdown_timeout": {"SHUTDOWN_TIMEOUT"},
		"logging.level":    {"LOG_LEVEL"},
		"logging.format":   {"LOG_FORMAT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate returns every problem with c; the server refuses to start unless it
// is empty.
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database url is required (DATABASE_URL or POSTGRES_URI)"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("api key is required (API_KEY)"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required (ADDR)"))
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			errs = append(errs, errors.New("allowed origins must be listed explicitly, not *"))
			continue
		}
		if c.IsProduction() && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("allowed origin %s must use https in production", origin))
		}
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid shutdown timeout: %s", c.ShutdownTimeout))
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}

	validFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Errorf("invalid log format: %s (valid: text, json)", c.Logging.Format))
	}

	return errs
}
