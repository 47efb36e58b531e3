// Package config loads runtime configuration for the jobhub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Environment variables prefixed with JOBHUB_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string          base URL of the backend REST API
//	-d string          storage DSN (SQLite path or postgres:// URL)
//	-idle duration     idle budget before forced logout (T)
//	-warn duration     warning lead before forced logout (W)
//	-cooldown duration OTP resend cooldown
//	-timeout duration  per-request timeout of backend calls
//	-i int             online status check interval (seconds)
//	-log-format string text | json | zerolog
//	-log-level string  debug | info | warn | error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3m" or integer
// nanoseconds:
//
//	{
//	  "server_url": "https://api.jobhub.example",
//	  "database_dsn": "jobhub.db",
//	  "idle_timeout": "3m",
//	  "idle_warning": "1s",
//	  "otp_resend_cooldown": "30s"
//	}
package config
