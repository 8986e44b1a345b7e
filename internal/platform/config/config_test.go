package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		StoreDriver:  StoreDriverPostgres,
		DatabaseURL:  "postgres://localhost/officehr",
		JWTSecret:    "secret",
		TokenTTL:     time.Hour,
		MaxBodyBytes: 4096,
	}
}

func TestValidateArchiveAndRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.ArchivePayslips = true
	assert.Error(t, cfg.Validate())
	cfg.PayslipDir = "storage/payslips"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.LoginRateLimit = 5
	assert.Error(t, cfg.Validate())
	cfg.LoginRateWindow = time.Minute
	assert.NoError(t, cfg.Validate())
}

func TestValidateAcceptsPostgresConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRequiresDriverSpecificURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.StoreDriver = StoreDriverMongo
	assert.Error(t, cfg.Validate())
	cfg.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestValidateEmailNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.EmailEnabled = true
	assert.Error(t, cfg.Validate())
	cfg.SMTPHost = "smtp.example.com"
	assert.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "verbose"}.SlogLevel())
}
