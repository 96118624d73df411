package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel         = "error"
	DefaultJSONLog          = false
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultHTTPTimeout      = 10 * time.Second
	DefaultDelay            = 2 * time.Second
	DefaultInteractiveDelay = 1 * time.Second
	DefaultMaxPerSite       = 10
	DefaultConcurrency      = 1
	DefaultMaxConcurrency   = 16
	DefaultRateLimitRPS     = 0.5
	DefaultRateLimitBurst   = 1
	DefaultMaxBodySize      = 10 * 1024 * 1024 // 10MB
	DefaultBrowserHeadless  = true
	DefaultRenderTimeout    = 30 * time.Second
	DefaultRenderWait       = 500 * time.Millisecond
	DefaultOutputDir        = "."
	DefaultMongoDatabase    = "headlines"
	DefaultMongoCollection  = "records"

	// EnvPrefix prefixes every environment override, e.g. HEADLINES_DELAY=3s
	EnvPrefix = "HEADLINES"

	// ConfigName is the file looked up in . and ~/.headlines when --config is unset
	ConfigName = "headlines"
)

// DefaultFormats are the export formats written by batch commands
var DefaultFormats = []string{"csv"}
