package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/headlines/internal/sites"
	"github.com/law-makers/headlines/internal/utils/headers"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `mapstructure:"log_level"`
	JSONLog  bool   `mapstructure:"json_log"`

	// HTTP
	HTTPTimeout time.Duration     `mapstructure:"timeout"`
	UserAgent   string            `mapstructure:"user_agent"`
	Headers     map[string]string `mapstructure:"headers"`
	Proxies     []string          `mapstructure:"proxies"`
	MaxBodySize int64             `mapstructure:"max_body_size"`

	// Pipeline
	Delay            time.Duration `mapstructure:"delay"`
	InteractiveDelay time.Duration `mapstructure:"interactive_delay"`
	MaxPerSite       int           `mapstructure:"max_per_site"`
	Concurrency      int           `mapstructure:"concurrency"`
	RateLimitRPS     float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst   int           `mapstructure:"rate_limit_burst"`

	// Browser rendering fallback
	Render          bool          `mapstructure:"render"`
	BrowserHeadless bool          `mapstructure:"headless"`
	ChromePath      string        `mapstructure:"chrome_path"`
	RenderTimeout   time.Duration `mapstructure:"render_timeout"`
	RenderWait      time.Duration `mapstructure:"render_wait"`

	// Output
	OutputDir       string   `mapstructure:"output_dir"`
	Formats         []string `mapstructure:"formats"`
	MongoURI        string   `mapstructure:"mongo_uri"`
	MongoDatabase   string   `mapstructure:"mongo_database"`
	MongoCollection string   `mapstructure:"mongo_collection"`

	// Sites replaces or adds site groups on top of the built-in ones
	Sites map[string][]models.SiteSpec `mapstructure:"sites"`

	// ConfigFile is the file that was read, if any
	ConfigFile string `mapstructure:"-"`
}

// Defaults returns a Config populated with the built-in defaults
func Defaults() *Config {
	return &Config{
		LogLevel:         DefaultLogLevel,
		JSONLog:          DefaultJSONLog,
		HTTPTimeout:      DefaultHTTPTimeout,
		UserAgent:        DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
		Delay:            DefaultDelay,
		InteractiveDelay: DefaultInteractiveDelay,
		MaxPerSite:       DefaultMaxPerSite,
		Concurrency:      DefaultConcurrency,
		RateLimitRPS:     DefaultRateLimitRPS,
		RateLimitBurst:   DefaultRateLimitBurst,
		BrowserHeadless:  DefaultBrowserHeadless,
		RenderTimeout:    DefaultRenderTimeout,
		RenderWait:       DefaultRenderWait,
		OutputDir:        DefaultOutputDir,
		Formats:          append([]string(nil), DefaultFormats...),
		MongoDatabase:    DefaultMongoDatabase,
		MongoCollection:  DefaultMongoCollection,
	}
}

// Load builds a Config by combining defaults, an optional config file,
// HEADLINES_* environment variables and CLI flags, in increasing priority.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configPath := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
		bindFlags(v, cmd)
	}
	if configPath == "" {
		configPath = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+ConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// viper lower-cases map keys
	cfg.Headers = headers.Merge(nil, cfg.Headers)

	if cmd != nil {
		applyFlagOverrides(cmd, cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SiteGroups returns the built-in groups with the configured ones merged in
func (c *Config) SiteGroups() sites.Groups {
	return sites.Defaults().Merge(c.Sites)
}

// setDefaults registers default values in viper so AutomaticEnv can see every key
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("json_log", cfg.JSONLog)
	v.SetDefault("timeout", cfg.HTTPTimeout)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("headers", map[string]string{})
	v.SetDefault("proxies", []string{})
	v.SetDefault("max_body_size", cfg.MaxBodySize)
	v.SetDefault("delay", cfg.Delay)
	v.SetDefault("interactive_delay", cfg.InteractiveDelay)
	v.SetDefault("max_per_site", cfg.MaxPerSite)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("rate_limit_rps", cfg.RateLimitRPS)
	v.SetDefault("rate_limit_burst", cfg.RateLimitBurst)
	v.SetDefault("render", cfg.Render)
	v.SetDefault("headless", cfg.BrowserHeadless)
	v.SetDefault("chrome_path", cfg.ChromePath)
	v.SetDefault("render_timeout", cfg.RenderTimeout)
	v.SetDefault("render_wait", cfg.RenderWait)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("formats", cfg.Formats)
	v.SetDefault("mongo_uri", cfg.MongoURI)
	v.SetDefault("mongo_database", cfg.MongoDatabase)
	v.SetDefault("mongo_collection", cfg.MongoCollection)
}

// bindFlags lets changed CLI flags take priority over env and file values
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			v.BindPFlag(key, f)
		}
	}
}

// applyFlagOverrides handles flags that do not map one-to-one onto a key
func applyFlagOverrides(cmd *cobra.Command, cfg *Config) {
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "disabled"
	}
	if hs, err := cmd.Flags().GetStringArray("header"); err == nil && len(hs) > 0 {
		cfg.Headers = headers.Merge(cfg.Headers, headers.ParseHeaders(hs))
	}
}
