package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/streamstock/internal/flagx"
	"github.com/dmitrijs2005/streamstock/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "10s". Absent fields leave the
// current value untouched.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	Area           string         `json:"area"`
	DBPath         string         `json:"db_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RefreshTimeout timex.Duration `json:"refresh_timeout"`
	ExpiryBuffer   timex.Duration `json:"expiry_buffer"`
	RateLimit      float64        `json:"rate_limit"`
	LogBackend     string         `json:"log_backend"`
	LogLevel       string         `json:"log_level"`
	StorageSecret  string         `json:"storage_secret"`

	S3Endpoint        string `json:"s3_endpoint"`
	S3Region          string `json:"s3_region"`
	S3Bucket          string `json:"s3_bucket"`
	S3AccessKeyID     string `json:"s3_access_key_id"`
	S3SecretAccessKey string `json:"s3_secret_access_key"`
	S3PublicBaseURL   string `json:"s3_public_base_url"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c/-config or $STREAMSTOCK_CONFIG (see
// flagx.ConfigFilePath). No path means no JSON is loaded. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.Area, jc.Area)
	setString(&cfg.DBPath, jc.DBPath)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.RefreshTimeout, jc.RefreshTimeout)
	setDuration(&cfg.ExpiryBuffer, jc.ExpiryBuffer)
	if jc.RateLimit > 0 {
		cfg.RateLimit = jc.RateLimit
	}
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.StorageSecret, jc.StorageSecret)

	setString(&cfg.Media.Endpoint, jc.S3Endpoint)
	setString(&cfg.Media.Region, jc.S3Region)
	setString(&cfg.Media.Bucket, jc.S3Bucket)
	setString(&cfg.Media.AccessKeyID, jc.S3AccessKeyID)
	setString(&cfg.Media.SecretAccessKey, jc.S3SecretAccessKey)
	setString(&cfg.Media.PublicBaseURL, jc.S3PublicBaseURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
