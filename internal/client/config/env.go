package config

import (
	"strconv"
	"time"
)

// Environment variables recognised by parseEnv.
const (
	envServerURL           = "JOBHUB_SERVER_URL"
	envDatabaseDSN         = "JOBHUB_DATABASE_DSN"
	envIdleTimeout         = "JOBHUB_IDLE_TIMEOUT"
	envIdleWarning         = "JOBHUB_IDLE_WARNING"
	envOTPResendCooldown   = "JOBHUB_OTP_RESEND_COOLDOWN"
	envRequestTimeout      = "JOBHUB_REQUEST_TIMEOUT"
	envOnlineCheckInterval = "JOBHUB_ONLINE_CHECK_INTERVAL"
	envLogFormat           = "JOBHUB_LOG_FORMAT"
	envLogLevel            = "JOBHUB_LOG_LEVEL"
)

// parseEnv overlays cfg with JOBHUB_* variables. Durations accept Go duration
// syntax or a bare number of milliseconds. Unparseable values are ignored.
func parseEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}

	cfg.ServerURL = getEnv(getenv, envServerURL, cfg.ServerURL)
	cfg.DatabaseDSN = getEnv(getenv, envDatabaseDSN, cfg.DatabaseDSN)
	cfg.LogFormat = getEnv(getenv, envLogFormat, cfg.LogFormat)
	cfg.LogLevel = getEnv(getenv, envLogLevel, cfg.LogLevel)
	cfg.IdleTimeout = getEnvDuration(getenv, envIdleTimeout, cfg.IdleTimeout)
	cfg.IdleWarning = getEnvDuration(getenv, envIdleWarning, cfg.IdleWarning)
	cfg.OTPResendCooldown = getEnvDuration(getenv, envOTPResendCooldown, cfg.OTPResendCooldown)
	cfg.RequestTimeout = getEnvDuration(getenv, envRequestTimeout, cfg.RequestTimeout)
	cfg.OnlineCheckInterval = getEnvDuration(getenv, envOnlineCheckInterval, cfg.OnlineCheckInterval)
}

func getEnv(getenv func(string) string, name, defaultValue string) string {
	if v := getenv(name); v != "" {
		return v
	}
	return defaultValue
}

func getEnvDuration(getenv func(string) string, name string, defaultValue time.Duration) time.Duration {
	v := getenv(name)
	if v == "" {
		return defaultValue
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultValue
}
