package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/flagx"
	"github.com/dmitrijs2005/jobhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-able fields let a file override only the settings it mentions.
type JsonConfig struct {
	ServerURL           string          `json:"server_url"`
	DatabaseDSN         string          `json:"database_dsn"`
	IdleTimeout         *timex.Duration `json:"idle_timeout"`
	IdleWarning         *timex.Duration `json:"idle_warning"`
	OTPResendCooldown   *timex.Duration `json:"otp_resend_cooldown"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogFormat           string          `json:"log_format"`
	LogLevel            string          `json:"log_level"`
}

// parseJSON overlays cfg with values from the file given by -c/-config.
// Without the flag nothing happens.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.IdleTimeout, jc.IdleTimeout)
	setDuration(&cfg.IdleWarning, jc.IdleWarning)
	setDuration(&cfg.OTPResendCooldown, jc.OTPResendCooldown)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
