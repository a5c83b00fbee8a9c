package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "REDIS_URL", "SUBMIT_GUARD_TTL", "CRON_ENABLED", "REFERENCE_PREFIX", "SMTP_HOST", "TWILIO_ACCOUNT_SID"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.SubmitGuardTTL)
	assert.True(t, cfg.CronEnabled)
	assert.Equal(t, "BK", cfg.ReferencePrefix)
	assert.False(t, cfg.EmailEnabled())
	assert.False(t, cfg.SMSEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SUBMIT_GUARD_TTL", "2m")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "bookings@example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 2*time.Minute, cfg.SubmitGuardTTL)
	assert.False(t, cfg.CronEnabled)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.EmailEnabled())
	assert.True(t, cfg.IsProduction())
}
