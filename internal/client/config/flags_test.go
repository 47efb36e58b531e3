package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	cfg := defaults()
	err := parseFlags(&cfg, []string{
		"-a", "http://example.com:8080",
		"-d", "postgres://u:p@db/jobhub",
		"-idle=5m",
		"--warn", "10s",
		"-cooldown", "1m",
		"-timeout", "2s",
		"-i", "12",
		"-log-format", "json",
		"-log-level", "warn",
		"-c", "ignored.json",
	})
	require.NoError(t, err)

	want := Config{
		ServerURL:           "http://example.com:8080",
		DatabaseDSN:         "postgres://u:p@db/jobhub",
		IdleTimeout:         5 * time.Minute,
		IdleWarning:         10 * time.Second,
		OTPResendCooldown:   time.Minute,
		RequestTimeout:      2 * time.Second,
		OnlineCheckInterval: 12 * time.Second,
		LogFormat:           "json",
		LogLevel:            "warn",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("parseFlags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlags_NoArgsKeepsValues(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseFlags(&cfg, nil))
	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Errorf("parseFlags changed config (-want +got):\n%s", diff)
	}
}
