package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL)
	assert.True(t, cfg.EmailDebug)
	assert.Equal(t, "email.log", cfg.EmailLogFile)
	assert.Empty(t, cfg.DigestCron)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("RESET_TOKEN_TTL", "5m")
	t.Setenv("EMAIL_DEBUG", "false")
	t.Setenv("SMTP_HOST", "mail.dm.com")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.ResetTokenTTL)
	assert.False(t, cfg.EmailDebug)
}

func TestNewConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")

	_, err := NewConfig()
	assert.Error(t, err)
}
