package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Formats accepted in Config.Formats
var validFormats = map[string]bool{"csv": true, "json": true, "md": true, "chart": true, "mongo": true}

func validate(c *Config) error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.Delay < 0 || c.InteractiveDelay < 0 {
		return fmt.Errorf("delay must be >= 0")
	}
	if c.MaxPerSite <= 0 {
		return fmt.Errorf("max per site must be > 0")
	}
	if c.Concurrency <= 0 || c.Concurrency > DefaultMaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d", DefaultMaxConcurrency)
	}
	if c.Concurrency > 1 && c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be > 0 when concurrency > 1")
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be > 0")
	}
	if c.Render && c.RenderTimeout <= 0 {
		return fmt.Errorf("render timeout must be > 0")
	}
	for i, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !validFormats[f] {
			return fmt.Errorf("unknown export format %q", f)
		}
		c.Formats[i] = f
	}
	if c.HasFormat("mongo") && c.MongoURI == "" {
		return fmt.Errorf("mongo format requires mongo_uri")
	}
	if err := c.SiteGroups().Validate(); err != nil {
		return err
	}
	return nil
}

// HasFormat reports whether format is among the configured export formats
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}
