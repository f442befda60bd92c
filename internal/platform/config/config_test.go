package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "payroll_data.csv", cfg.PayrollFile)
	require.Equal(t, "time_data.csv", cfg.TimeFile)
	require.Equal(t, "benefits.csv", cfg.BenefitsFile)
	require.Equal(t, "payroll_register.csv", cfg.OutputFile)
	require.Equal(t, "hash", cfg.Strategy)
	require.Equal(t, int64(33554432), cfg.MaxBodyBytes)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PAYROLL_FILE", "/data/p.csv")
	t.Setenv("JOIN_STRATEGY", "merge")
	t.Setenv("OUTPUT_FORMAT", "xlsx")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/data/p.csv", cfg.PayrollFile)
	require.Equal(t, "merge", cfg.Strategy)
	require.Equal(t, "xlsx", cfg.OutputFormat)
	require.False(t, cfg.MetricsEnabled)
	require.NoError(t, cfg.Validate())
	require.Equal(t, logrus.DebugLevel, cfg.Logger().GetLevel())
}

func TestApplyToConfiguresLogger(t *testing.T) {
	logger := logrus.New()
	Config{LogLevel: "warn", LogFormat: "json"}.ApplyTo(logger)
	require.Equal(t, logrus.WarnLevel, logger.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	Config{LogLevel: "bogus", LogFormat: "text"}.ApplyTo(logger)
	require.Equal(t, logrus.WarnLevel, logger.GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "lots")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	cases := map[string]func(*Config){
		"strategy":   func(c *Config) { c.Strategy = "nested" },
		"format":     func(c *Config) { c.OutputFormat = "ods" },
		"output":     func(c *Config) { c.OutputFile = " " },
		"body limit": func(c *Config) { c.MaxBodyBytes = 10 },
		"log level":  func(c *Config) { c.LogLevel = "loud" },
		"production": func(c *Config) { c.Environment = Production },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}

	prod := base
	prod.Environment = Production
	prod.JWTSecret = "s3cret"
	prod.DataEncryptionKey = "key"
	require.NoError(t, prod.Validate())
}

func TestLoadEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PAYREGISTER_TEST_VALUE=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("PAYREGISTER_TEST_VALUE") })

	n, err := LoadEnv([]string{envFile, filepath.Join(dir, ".env.local")})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "from-file", os.Getenv("PAYREGISTER_TEST_VALUE"))

	n, err = LoadEnv([]string{filepath.Join(dir, "missing")})
	require.NoError(t, err)
	require.Zero(t, n)
}
