package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/bennieslab/threatwatch/internal/flagx"
	"github.com/bennieslab/threatwatch/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JSONConfig struct {
	APIBaseURL      string         `json:"api_base_url"`
	EmailIngestURL  string         `json:"email_ingest_url"`
	SMSDetectURL    string         `json:"sms_detect_url"`
	RefreshInterval timex.Duration `json:"refresh_interval"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c/-config flags (flagx.JSONConfigFlags);
// when neither flag is set, no JSON is loaded. Empty fields in the file
// leave the current value untouched, so a partial file only overrides what
// it names. Read or unmarshal errors panic: a config file that exists but
// cannot be used is a startup defect, not a runtime condition.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.EmailIngestURL != "" {
		cfg.EmailIngestURL = jc.EmailIngestURL
	}
	if jc.SMSDetectURL != "" {
		cfg.SMSDetectURL = jc.SMSDetectURL
	}
	if jc.RefreshInterval.Duration != 0 {
		cfg.RefreshInterval = time.Duration(jc.RefreshInterval.Duration)
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
