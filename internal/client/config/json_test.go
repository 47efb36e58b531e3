package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_PartialOverride(t *testing.T) {
	path := writeJSON(t, `{"otp_resend_cooldown": 15000000000, "request_timeout": "3s"}`)

	cfg := defaults()
	require.NoError(t, parseJSON(&cfg, []string{"-c", path}))

	assert.Equal(t, 15*time.Second, cfg.OTPResendCooldown)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, defaults().ServerURL, cfg.ServerURL)
	assert.Equal(t, defaults().IdleTimeout, cfg.IdleTimeout)
}

func TestParseJSON_NoFlag(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseJSON(&cfg, []string{"-a", "x"}))
	assert.Equal(t, defaults(), cfg)
}
