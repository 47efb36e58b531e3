package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/logging"
)

// Config holds runtime settings for the jobhub CLI.
type Config struct {
	ServerURL           string
	DatabaseDSN         string
	IdleTimeout         time.Duration // T
	IdleWarning         time.Duration // W, warning shown at T-W
	OTPResendCooldown   time.Duration
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogFormat           string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.DatabaseDSN = "jobhub.db"
	c.IdleTimeout = 180000 * time.Millisecond
	c.IdleWarning = 1000 * time.Millisecond
	c.OTPResendCooldown = 30000 * time.Millisecond
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogFormat = logging.FormatText
	c.LogLevel = "info"
}

// Validate rejects settings the session core cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerURL == "" {
		errs = append(errs, errors.New("server url is required"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("idle timeout must be positive, got %s", c.IdleTimeout))
	}
	if c.IdleWarning < 0 || c.IdleWarning >= c.IdleTimeout {
		errs = append(errs, fmt.Errorf("idle warning must be in [0, %s), got %s", c.IdleTimeout, c.IdleWarning))
	}
	if c.OTPResendCooldown < 0 {
		errs = append(errs, fmt.Errorf("otp resend cooldown must not be negative, got %s", c.OTPResendCooldown))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval))
	}
	return errors.Join(errs...)
}

// Load constructs a Config from defaults, then overlays the JSON file named
// in args, the environment (through getenv) and finally flags from args.
// Later sources take precedence over earlier ones.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}
