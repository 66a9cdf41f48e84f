package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-kit/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GCP_PROJECT", "GOOGLE_APPLICATION_CREDENTIALS", "BQ_LOCATION",
		"AWS_REGION", "S3_ENDPOINT", "S3_USE_PATH_STYLE", "GCS_CREDENTIALS_FILE",
		"AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY",
		"DATE_FORMAT", "DATE_RANGE_COLUMN", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "%Y-%m-%d %H:%M:%S", cfg.DateFormat)
	assert.Equal(t, domain.DefaultDateFormat, DefaultDateFormat)
	assert.Equal(t, "current", cfg.DateRangeColumn)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.JSONLogs())
	assert.False(t, cfg.Storage.S3PathStyle)
	assert.False(t, cfg.Storage.HasAzure())

	mode, err := cfg.DateRangeMode()
	require.NoError(t, err)
	assert.Equal(t, domain.DateRangeColumnCurrent, mode)
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("GCP_PROJECT", "acme")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("BQ_LOCATION", "EU")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "acct")
	t.Setenv("AZURE_STORAGE_KEY", "a2V5")
	t.Setenv("DATE_FORMAT", "%Y/%m/%d")
	t.Setenv("DATE_RANGE_COLUMN", "first")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, WarehouseConfig{ProjectID: "acme", CredentialsFile: "/secrets/sa.json", Location: "EU"}, cfg.Warehouse)
	assert.Equal(t, "eu-west-1", cfg.Storage.AWSRegion)
	assert.True(t, cfg.Storage.S3PathStyle, "endpoint override implies path-style")
	assert.True(t, cfg.Storage.HasAzure())
	assert.Equal(t, "%Y/%m/%d", cfg.DateFormat)
	assert.True(t, cfg.JSONLogs())

	mode, err := cfg.DateRangeMode()
	require.NoError(t, err)
	assert.Equal(t, domain.DateRangeColumnFirst, mode)
}

func TestLoadFromEnv_PathStyleExplicit(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_USE_PATH_STYLE", "off")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Storage.S3PathStyle)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"date_range_column", "DATE_RANGE_COLUMN", "last", "DATE_RANGE_COLUMN"},
		{"date_format", "DATE_FORMAT", "%Q", "DATE_FORMAT"},
		{"azure_key_without_account", "AZURE_STORAGE_KEY", "a2V5", "AZURE_STORAGE_ACCOUNT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			cfg, err := LoadFromEnv()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantMsg)

			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tc.level}
			assert.Equal(t, tc.want, cfg.SlogLevel())
		})
	}
}

func TestParseBoolEnvDefault(t *testing.T) {
	t.Setenv("FLAG", "yes")
	assert.True(t, parseBoolEnvDefault("FLAG", false))
	t.Setenv("FLAG", "0")
	assert.False(t, parseBoolEnvDefault("FLAG", true))
	t.Setenv("FLAG", "maybe")
	assert.True(t, parseBoolEnvDefault("FLAG", true))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nGCP_PROJECT=from-file\nBQ_LOCATION=\"US\"\nexport LOG_LEVEL='debug'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("GCP_PROJECT", "")
	t.Setenv("BQ_LOCATION", "EU")
	t.Setenv("LOG_LEVEL", "")

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("GCP_PROJECT"))
	assert.Equal(t, "EU", os.Getenv("BQ_LOCATION"), "existing env vars take precedence")
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
