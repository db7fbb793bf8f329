package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProductionConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tallybook.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "manual", cfg.App.DefaultSort)
	assert.Equal(t, "day", cfg.App.DefaultPeriod)
	assert.Equal(t, "active", cfg.App.DefaultView)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadProductionConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_PATH", "/tmp/board.db")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("APP_DEFAULT_SORT", "highest")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/board.db", cfg.Database.Path)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "highest", cfg.App.DefaultSort)
	assert.Equal(t, time.UTC, cfg.App.Location())
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestValidateProductionConfigCollectsErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	cfg.Database.Driver = "mysql"
	cfg.Server.Port = 0
	cfg.App.DefaultPeriod = "fortnight"
	cfg.App.Timezone = "Mars/Olympus"

	err = ValidateProductionConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "APP_DEFAULT_PERIOD")
	assert.Contains(t, err.Error(), "APP_TIMEZONE")
}

func TestValidateProductionConfigPostgres(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	cfg.Database.Driver = "postgres"
	cfg.Database.Host = ""
	err = ValidateProductionConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST is required")
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "CounterFlow", "Create", "Add", map[string]string{"name": "Coffee"}, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"module":"CounterFlow"`)
	assert.Contains(t, out, `"funcName":"Create"`)
	assert.Contains(t, out, `"msg":"boom"`)
	assert.Contains(t, out, `"name":"Coffee"`)
}

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "warn", Output: "stdout", Format: "json"})
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger = NewLogger(LoggingConfig{Level: "nonsense", Output: "stdout"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
