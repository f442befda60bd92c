package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"payregister/internal/domain/payroll"
)

const Production = "production"

// DefaultEnvFiles are loaded in order when present. Variables already set in
// the process environment take precedence.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	PayrollFile  string `env:"PAYROLL_FILE" envDefault:"payroll_data.csv"`
	TimeFile     string `env:"TIME_FILE" envDefault:"time_data.csv"`
	BenefitsFile string `env:"BENEFITS_FILE" envDefault:"benefits.csv"`
	OutputFile   string `env:"OUTPUT_FILE" envDefault:"payroll_register.csv"`
	Strategy     string `env:"JOIN_STRATEGY" envDefault:"hash"`
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"csv"`
	PayslipsDir  string `env:"PAYSLIPS_DIR"`
	MetricsFile  string `env:"METRICS_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Environment       string `env:"APP_ENV" envDefault:"development"`
	Addr              string `env:"APP_ADDR" envDefault:":8080"`
	JWTSecret         string `env:"JWT_SECRET"`
	DataEncryptionKey string `env:"DATA_ENCRYPTION_KEY"`
	MaxBodyBytes      int64  `env:"MAX_BODY_BYTES" envDefault:"33554432"`
	MetricsEnabled    bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// LoadEnv loads the env files that exist and reports how many were read.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !slices.Contains(payroll.Strategies, c.Strategy) {
		return fmt.Errorf("JOIN_STRATEGY must be one of %s, got %q", strings.Join(payroll.Strategies, ", "), c.Strategy)
	}
	if !slices.Contains(payroll.Formats, c.OutputFormat) {
		return fmt.Errorf("OUTPUT_FORMAT must be one of %s, got %q", strings.Join(payroll.Formats, ", "), c.OutputFormat)
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return fmt.Errorf("OUTPUT_FILE is required")
	}
	if c.Environment == Production {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Logger builds a logger writing to stderr so stdout stays free for command
// output.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	c.ApplyTo(logger)
	return logger
}

// ApplyTo sets output, level and formatter on an existing logger. Commands
// apply it to logrus.StandardLogger so package-level logging follows
// LOG_LEVEL and LOG_FORMAT too.
func (c Config) ApplyTo(logger *logrus.Logger) {
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
