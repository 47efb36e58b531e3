package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	cfg := defaults()
	parseEnv(&cfg, envOf(map[string]string{
		envServerURL:         "http://env:9",
		envIdleTimeout:       "2m",
		envOTPResendCooldown: "5000",
		envRequestTimeout:    "garbage",
		envLogFormat:         "zerolog",
	}))

	assert.Equal(t, "http://env:9", cfg.ServerURL)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.OTPResendCooldown)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout, "unparseable value keeps the previous one")
	assert.Equal(t, "zerolog", cfg.LogFormat)
}

func TestParseEnv_NilGetenv(t *testing.T) {
	cfg := defaults()
	parseEnv(&cfg, nil)
	assert.Equal(t, defaults(), cfg)
}
