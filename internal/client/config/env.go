package config

import (
	"os"
	"time"
)

// parseEnv overlays Config with values from environment variables. Unset or
// empty variables leave the current value untouched.
//
// Recognised variables:
//
//	TWATCH_API_BASE_URL      base URL of the IDS aggregation service
//	TWATCH_EMAIL_INGEST_URL  email-ingest submission endpoint
//	TWATCH_SMS_DETECT_URL    SMS-detection submission endpoint
//	TWATCH_REFRESH_INTERVAL  dashboard refresh interval ("30s", "1m", ...)
//	TWATCH_REQUEST_TIMEOUT   per-request HTTP timeout
//	TWATCH_LOG_LEVEL         minimum log level
func parseEnv(cfg *Config) {
	if v := os.Getenv("TWATCH_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("TWATCH_EMAIL_INGEST_URL"); v != "" {
		cfg.EmailIngestURL = v
	}
	if v := os.Getenv("TWATCH_SMS_DETECT_URL"); v != "" {
		cfg.SMSDetectURL = v
	}
	if v := os.Getenv("TWATCH_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshInterval = d
		}
	}
	if v := os.Getenv("TWATCH_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("TWATCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
