// Package config loads and validates application configuration from a YAML
// file and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	Environment   string              `yaml:"environment"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig describes HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORS            CORSConfig    `yaml:"cors"`
}

// CORSConfig describes Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// DatabaseConfig describes the PostgreSQL pool. The DSN itself is read from
// the environment variable named by DSNEnv so credentials stay out of the
// config file.
type DatabaseConfig struct {
	DSNEnv          string        `yaml:"dsn_env"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	CallTimeout     time.Duration `yaml:"call_timeout"`
}

// AuthConfig describes session token, password, and two-factor settings.
// Secrets are indirected through environment variable names.
type AuthConfig struct {
	JWTSecretEnv string        `yaml:"jwt_secret_env"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	CookieName   string        `yaml:"cookie_name"`
	CookieMaxAge time.Duration `yaml:"cookie_max_age"`
	BcryptCost   int           `yaml:"bcrypt_cost"`
	PepperEnv    string        `yaml:"pepper_env"`
	TotpIssuer   string        `yaml:"totp_issuer"`
	TotpSkew     uint          `yaml:"totp_skew"`
}

// ObservabilityConfig describes logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel string        `yaml:"log_level"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// MetricsConfig describes Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Production reports whether the gateway runs with production hardening:
// secure cookies and redacted store errors.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORS: CORSConfig{
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "X-Correlation-Id"},
				MaxAge:         86400,
			},
		},
		Database: DatabaseConfig{
			DSNEnv:          "TASKGATE_DB_DSN",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			CallTimeout:     10 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecretEnv: "TASKGATE_JWT_SECRET",
			TokenTTL:     1 * time.Hour,
			CookieName:   "jwt",
			CookieMaxAge: 24 * time.Hour,
			BcryptCost:   10,
			PepperEnv:    "TASKGATE_PASSWORD_PEPPER",
			TotpIssuer:   "TodoApp",
			TotpSkew:     2,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides,
// and validates required fields.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if c.Database.DSNEnv == "" {
		errs = append(errs, "database.dsn_env is required")
	}
	if c.Auth.JWTSecretEnv == "" {
		errs = append(errs, "auth.jwt_secret_env is required")
	}
	if c.Auth.CookieName == "" {
		errs = append(errs, "auth.cookie_name is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// applyEnvOverrides reads TASKGATE_* environment variables and overrides
// config values. Only the most commonly overridden fields are supported.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TASKGATE_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("TASKGATE_SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TASKGATE_OBSERVABILITY_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
}
