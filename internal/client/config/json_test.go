package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONConfig_Unmarshal(t *testing.T) {
	data := []byte(`{
		"api_base_url": "http://10.0.0.5:8000",
		"email_ingest_url": "http://10.0.0.5:5000/ingest-email",
		"sms_detect_url": "http://10.0.0.5:8001/detect_sms",
		"refresh_interval": "15s",
		"request_timeout": "3s",
		"log_level": "warn"
	}`)

	var jc JSONConfig
	require.NoError(t, json.Unmarshal(data, &jc))

	assert.Equal(t, "http://10.0.0.5:8000", jc.APIBaseURL)
	assert.Equal(t, "http://10.0.0.5:5000/ingest-email", jc.EmailIngestURL)
	assert.Equal(t, "http://10.0.0.5:8001/detect_sms", jc.SMSDetectURL)
	assert.Equal(t, 15*time.Second, jc.RefreshInterval.Duration)
	assert.Equal(t, 3*time.Second, jc.RequestTimeout.Duration)
	assert.Equal(t, "warn", jc.LogLevel)
}

func TestJSONConfig_PartialFileKeepsDefaults(t *testing.T) {
	var jc JSONConfig
	require.NoError(t, json.Unmarshal([]byte(`{"log_level":"debug"}`), &jc))

	var c Config
	c.LoadDefaults()

	if jc.APIBaseURL != "" {
		c.APIBaseURL = jc.APIBaseURL
	}
	if jc.LogLevel != "" {
		c.LogLevel = jc.LogLevel
	}

	assert.Equal(t, "http://localhost:8000", c.APIBaseURL)
	assert.Equal(t, "debug", c.LogLevel)
}
