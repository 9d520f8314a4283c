// Package config loads runtime settings for the ThreatWatch CLI.
package config

import "time"

// Config holds runtime settings for the ThreatWatch CLI.
//
// Fields:
//   - APIBaseURL: base URL of the IDS aggregation service (auth, identity,
//     threat feeds, mailboxes).
//   - EmailIngestURL: full URL of the email-ingest submission endpoint.
//   - SMSDetectURL: full URL of the SMS-detection submission endpoint.
//   - RefreshInterval: how often dashboard views are re-fetched.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel: minimum log level (debug, info, warn, error).
//
// Units: intervals are time.Duration (e.g., 30*time.Second).
type Config struct {
	APIBaseURL      string
	EmailIngestURL  string
	SMSDetectURL    string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults. The ports mirror the
// backend subsystem layout: 8000 IDS, 5000 email manager, 8001 SMS manager.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.EmailIngestURL = "http://localhost:5000/ingest-email"
	c.SMSDetectURL = "http://localhost:8001/detect_sms"
	c.RefreshInterval = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
