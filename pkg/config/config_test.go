package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", cfg.BaseUrl)
	assert.Equal(t, BackendPostgres, cfg.DirectoryBackend)
	assert.Equal(t, uint16(5432), cfg.IdmDbConfig.Port)
	assert.True(t, cfg.SignupConfig.AllowUninvited)
	assert.Equal(t, "en_US", cfg.SignupConfig.DefaultLang)
	assert.Equal(t, 24*time.Hour, MustDuration(cfg.SignupConfig.ResetTokenExpiration))
	assert.Equal(t, 7*24*time.Hour, MustDuration(cfg.SignupConfig.InvitationExpiration))
	assert.Equal(t, 10, cfg.RateLimitConfig.Capacity)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BASE_URL", "https://signup.example.com")
	t.Setenv("DIRECTORY_BACKEND", "memory")
	t.Setenv("RESET_TOKEN_EXPIRATION", "PT30M")
	t.Setenv("SIGNUP_ALLOW_UNINVITED", "false")
	t.Setenv("EMAIL_PORT", "2525")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://signup.example.com", cfg.BaseUrl)
	assert.Equal(t, BackendMemory, cfg.DirectoryBackend)
	assert.Equal(t, 30*time.Minute, MustDuration(cfg.SignupConfig.ResetTokenExpiration))
	assert.False(t, cfg.SignupConfig.AllowUninvited)
	assert.Equal(t, 2525, cfg.EmailConfig.ToSMTPConfig().Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SIGNUP_DEFAULT_LANG=fr_FR\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SIGNUP_DEFAULT_LANG") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fr_FR", cfg.SignupConfig.DefaultLang)

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	t.Setenv("DIRECTORY_BACKEND", "mongo")
	t.Setenv("RESET_TOKEN_EXPIRATION", "one day")
	t.Setenv("BASE_URL", "localhost")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIRECTORY_BACKEND")
	assert.Contains(t, err.Error(), "RESET_TOKEN_EXPIRATION")
	assert.Contains(t, err.Error(), "BASE_URL")
}

func TestDatabaseConfig(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, Database: "signup", User: "u", Password: "p", Schema: "signup"}
	assert.Equal(t, "postgres://u:p@db:5433/signup?sslmode=disable&search_path=signup,public", d.ToDatabaseURL())

	dc := d.ToDbConfig()
	assert.Equal(t, "db", dc.Host)
	assert.Equal(t, uint16(5433), dc.Port)
}
