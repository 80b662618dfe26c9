package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"phone8ez/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Ops       OpsConfig
	Exchange  ExchangeConfig
	History   HistoryConfig
	Workspace WorkspaceConfig
	Billing   BillingConfig
	Auth      AuthConfig
	LogLevel  string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	GinMode     string `validate:"oneof=debug release test"`
	MaxUploadMB int    `validate:"gte=1,lte=512"`
}

// OpsConfig holds the metrics, health and pprof side server settings
type OpsConfig struct {
	Port    string `validate:"required,numeric"`
	Enabled bool
}

// ExchangeConfig holds dataset file export and import settings
type ExchangeConfig struct {
	FilePrefix  string `validate:"required,max=64,excludesall=/\\"`
	Timezone    string `validate:"required"`
	DefaultMode string `validate:"oneof=local cloud"`
}

// HistoryConfig bounds undo history. Zero keeps it unbounded.
type HistoryConfig struct {
	Limit int `validate:"gte=0"`
}

// WorkspaceConfig controls how long idle workspaces stay in memory
type WorkspaceConfig struct {
	IdleTTL       time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
}

// BillingConfig holds subscription gating settings
type BillingConfig struct {
	RequireSubscription bool
}

// AuthConfig holds settings for the upstream authentication proxy
type AuthConfig struct {
	EmailHeader string   `validate:"required"`
	AdminEmails []string `validate:"dive,email"`
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 32),
		},
		Ops: OpsConfig{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
		},
		Exchange: ExchangeConfig{
			FilePrefix:  getEnvOrDefault("EXPORT_FILE_PREFIX", "phone8ez"),
			Timezone:    getEnvOrDefault("EXPORT_TIMEZONE", "Local"),
			DefaultMode: getEnvOrDefault("STORAGE_MODE", "local"),
		},
		History: HistoryConfig{
			Limit: getEnvIntOrDefault("HISTORY_LIMIT", 0),
		},
		Workspace: WorkspaceConfig{
			IdleTTL:       getEnvDurationOrDefault("WORKSPACE_IDLE_TTL", 2*time.Hour),
			SweepInterval: getEnvDurationOrDefault("WORKSPACE_SWEEP_INTERVAL", 5*time.Minute),
		},
		Billing: BillingConfig{
			RequireSubscription: getEnvBoolOrDefault("REQUIRE_SUBSCRIPTION", false),
		},
		Auth: AuthConfig{
			EmailHeader: getEnvOrDefault("AUTH_EMAIL_HEADER", "X-User-Email"),
			AdminEmails: getEnvListOrDefault("ADMIN_EMAILS", nil),
		},
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if config.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks field constraints and that the export timezone exists
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := c.Exchange.Location(); err != nil {
		return errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "invalid EXPORT_TIMEZONE %q", c.Exchange.Timezone)
	}
	return nil
}

// Location resolves the timezone used for export file names
func (e ExchangeConfig) Location() (*time.Location, error) {
	if e.Timezone == "" || strings.EqualFold(e.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(e.Timezone)
}

// MaxUploadBytes returns the upload limit in bytes
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS
func (a AuthConfig) IsAdminEmail(email string) bool {
	for _, admin := range a.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blanks
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
