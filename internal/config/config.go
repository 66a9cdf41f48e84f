// Package config handles application configuration and environment loading.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lestrrat-go/strftime"

	"catalog-kit/internal/domain"
)

// DefaultDateFormat is the strftime layout used for formatted date ranges.
const DefaultDateFormat = domain.DefaultDateFormat

// WarehouseConfig selects the BigQuery project and credentials.
type WarehouseConfig struct {
	ProjectID       string // GCP_PROJECT; empty means detect from credentials
	CredentialsFile string // GOOGLE_APPLICATION_CREDENTIALS (service-account JSON)
	Location        string // BQ_LOCATION
}

// StorageConfig holds object-store client settings. Every backend is optional.
type StorageConfig struct {
	AWSRegion    string // AWS_REGION
	S3Endpoint   string // S3_ENDPOINT, for S3-compatible stores
	S3PathStyle  bool   // S3_USE_PATH_STYLE
	GCSCredsFile string // GCS_CREDENTIALS_FILE
	AzureAccount string // AZURE_STORAGE_ACCOUNT
	AzureKey     string // AZURE_STORAGE_KEY
}

// HasAzure returns true when an Azure storage account is configured.
func (s *StorageConfig) HasAzure() bool {
	return s.AzureAccount != ""
}

// Config holds the configuration for the CLI and its services.
type Config struct {
	Warehouse WarehouseConfig
	Storage   StorageConfig

	DateFormat      string // DATE_FORMAT, strftime layout
	DateRangeColumn string // DATE_RANGE_COLUMN: current or first
	LogLevel        string // log level: debug, info, warn, error (default "info")
	LogFormat       string // log format: text (default) or json
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSONLogs reports whether logs should be emitted as JSON.
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

// DateRangeMode parses DateRangeColumn.
func (c *Config) DateRangeMode() (domain.DateRangeColumn, error) {
	return domain.ParseDateRangeColumn(c.DateRangeColumn)
}

// Validate checks values that can only be rejected after loading.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.DateRangeMode(); err != nil {
		errs = append(errs, fmt.Errorf("DATE_RANGE_COLUMN: %w", err))
	}
	if _, err := strftime.New(c.DateFormat); err != nil {
		errs = append(errs, fmt.Errorf("DATE_FORMAT: %w", domain.ErrValidation("invalid layout %q: %v", c.DateFormat, err)))
	}
	if c.Storage.AzureKey != "" && c.Storage.AzureAccount == "" {
		errs = append(errs, domain.ErrValidation("AZURE_STORAGE_KEY requires AZURE_STORAGE_ACCOUNT"))
	}
	return errors.Join(errs...)
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Warehouse: WarehouseConfig{
			ProjectID:       os.Getenv("GCP_PROJECT"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Location:        os.Getenv("BQ_LOCATION"),
		},
		Storage: StorageConfig{
			AWSRegion:    os.Getenv("AWS_REGION"),
			S3Endpoint:   os.Getenv("S3_ENDPOINT"),
			S3PathStyle:  parseBoolEnvDefault("S3_USE_PATH_STYLE", false),
			GCSCredsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
			AzureAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
			AzureKey:     os.Getenv("AZURE_STORAGE_KEY"),
		},
		DateFormat:      os.Getenv("DATE_FORMAT"),
		DateRangeColumn: strings.TrimSpace(os.Getenv("DATE_RANGE_COLUMN")),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
	}

	// Defaults
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	if cfg.DateRangeColumn == "" {
		cfg.DateRangeColumn = domain.DateRangeColumnCurrent.String()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	// An S3 endpoint override almost always means MinIO or another
	// S3-compatible store, which needs path-style addressing.
	if cfg.Storage.S3Endpoint != "" && os.Getenv("S3_USE_PATH_STYLE") == "" {
		cfg.Storage.S3PathStyle = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	default:
		return defaultVal
	}
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for key, value := range vars {
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	return nil
}
