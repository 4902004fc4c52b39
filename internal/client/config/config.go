package config

import "time"

// Config holds runtime settings for the streamstock terminal client.
//
// Durations are time.Duration values; the JSON loader accepts them either as
// strings like "10s" or as integer nanoseconds.
type Config struct {
	APIBaseURL string
	// Area selects the session context: customer, admin or supplier.
	Area   string
	DBPath string

	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	ExpiryBuffer   time.Duration
	// RateLimit caps outgoing API requests per second; 0 disables it.
	RateLimit float64

	LogBackend string
	LogLevel   string

	// StorageSecret, when set, encrypts stored tokens at rest.
	StorageSecret string

	Media MediaConfig
}

// MediaConfig points at the S3-compatible bucket product images go to.
type MediaConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL prefixes object keys to form image URLs. Defaults to
	// Endpoint/Bucket.
	PublicBaseURL string
}

// Enabled reports whether enough is configured to upload.
func (m MediaConfig) Enabled() bool {
	return m.Endpoint != "" && m.Bucket != ""
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.Area = "customer"
	c.DBPath = "streamstock.db"
	c.RequestTimeout = 30 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.ExpiryBuffer = 5 * time.Second
	c.RateLimit = 0
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.Media = MediaConfig{Region: "us-east-1"}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
