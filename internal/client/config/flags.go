package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// defined here are considered (see flagx.ParseOwn), so -c/-config and flags
// of other components do not interfere.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("jobhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "storage DSN (sqlite path or postgres:// URL)")
	fs.DurationVar(&cfg.IdleTimeout, "idle", cfg.IdleTimeout, "idle budget before forced logout")
	fs.DurationVar(&cfg.IdleWarning, "warn", cfg.IdleWarning, "warning lead before forced logout")
	fs.DurationVar(&cfg.OTPResendCooldown, "cooldown", cfg.OTPResendCooldown, "OTP resend cooldown")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "backend request timeout")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json or zerolog")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := flagx.ParseOwn(fs, args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
