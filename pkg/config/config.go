package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sosodev/duration"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// SignupConfig controls who may sign up and how long emailed links live.
type SignupConfig struct {
	AllowUninvited       bool   `env:"SIGNUP_ALLOW_UNINVITED" env-default:"true"`
	DefaultLang          string `env:"SIGNUP_DEFAULT_LANG" env-default:"en_US"`
	ResetTokenExpiration string `env:"RESET_TOKEN_EXPIRATION" env-default:"P1D"`
	InvitationExpiration string `env:"INVITATION_EXPIRATION" env-default:"P7D"`
}

// Config is the environment of the signup service.
type Config struct {
	BaseUrl          string `env:"BASE_URL" env-default:"http://localhost:4000"`
	DirectoryBackend string `env:"DIRECTORY_BACKEND" env-default:"postgres"`
	LogLevel         string `env:"LOG_LEVEL" env-default:"info"`

	IdmDbConfig     DatabaseConfig
	EmailConfig     EmailConfig
	SignupConfig    SignupConfig
	SessionConfig   SessionConfig
	RateLimitConfig RateLimitConfig
}

// LoadEnvFile loads envFile into the process environment when it exists.
func LoadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		slog.Debug("No .env file found", "path", envFile)
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	slog.Info("Configuration loaded from .env file", "path", envFile)
	return nil
}

// Load reads envFile, if present, then the environment, and validates the
// result.
func Load(envFile string) (Config, error) {
	var cfg Config
	if err := LoadEnvFile(envFile); err != nil {
		return cfg, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values cleanenv cannot.
func (c Config) Validate() error {
	var errs []error
	switch c.DirectoryBackend {
	case BackendPostgres, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("DIRECTORY_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.DirectoryBackend))
	}
	if !strings.HasPrefix(c.BaseUrl, "http://") && !strings.HasPrefix(c.BaseUrl, "https://") {
		errs = append(errs, fmt.Errorf("BASE_URL must be an http(s) URL, got %q", c.BaseUrl))
	}
	for name, value := range map[string]string{
		"RESET_TOKEN_EXPIRATION": c.SignupConfig.ResetTokenExpiration,
		"INVITATION_EXPIRATION":  c.SignupConfig.InvitationExpiration,
		"RATE_LIMIT_WINDOW":      c.RateLimitConfig.Window,
		"RATE_LIMIT_BUCKET_TTL":  c.RateLimitConfig.BucketTTL,
	} {
		if _, err := ParseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.RateLimitConfig.Enabled && c.RateLimitConfig.Capacity <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_CAPACITY must be positive"))
	}
	return errors.Join(errs...)
}

// ParseDuration parses an ISO-8601 duration such as "PT15M" or "P1D".
func ParseDuration(value string) (time.Duration, error) {
	d, err := duration.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", value, err)
	}
	return d.ToTimeDuration(), nil
}

// MustDuration is ParseDuration for values already checked by Validate.
func MustDuration(value string) time.Duration {
	d, err := ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
