package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Global  GlobalConfig  `mapstructure:"global"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Publish PublishConfig `mapstructure:"publish"`
	Logging LoggingConfig `mapstructure:"logging"`
	Targets []Target      `mapstructure:"targets"`
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	EnableTUI bool   `mapstructure:"enable_tui"`
}

// GlobalConfig holds global check settings
type GlobalConfig struct {
	// Interval is the cadence of the continuous modes; single-cycle mode
	// ignores it.
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// Window is the number of most recent measurements that feed the
	// short-term trend statistics.
	Window  int    `mapstructure:"window"`
	DataDir string `mapstructure:"data_dir"`
}

// ProbeConfig holds settings shared by every HTTP check
type ProbeConfig struct {
	Method    string `mapstructure:"method"`
	UserAgent string `mapstructure:"user_agent"`
}

// PublishConfig controls pushing the summary document to a git remote
type PublishConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Dir is the repository to commit from; defaults to the working
	// directory.
	Dir string `mapstructure:"dir"`
	// Files lists paths (relative to Dir) staged on each publish. When
	// empty, the summary document in the data directory is staged.
	Files         []string `mapstructure:"files"`
	MessagePrefix string   `mapstructure:"message_prefix"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Format string `mapstructure:"format"` // "text" or "json"
	File   string `mapstructure:"file"`   // optional rotating log file
}

// Target represents a monitored endpoint
type Target struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
	// ExpectedContent, when set, must appear in the response body for a
	// check to count as successful.
	ExpectedContent string `mapstructure:"expected_content" json:"expected_content,omitempty"`
	Description     string `mapstructure:"description" json:"description,omitempty"`
}

// Load reads configuration from the specified file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.enable_tui", true)
	v.SetDefault("global.interval", "60s")
	v.SetDefault("global.timeout", "15s")
	v.SetDefault("global.window", 10)
	v.SetDefault("global.data_dir", "./data")
	v.SetDefault("probe.method", "GET")
	v.SetDefault("probe.user_agent", "vigil/1.0")
	v.SetDefault("publish.enabled", false)
	v.SetDefault("publish.dir", ".")
	v.SetDefault("publish.message_prefix", "vigil results update")
	v.SetDefault("logging.format", "text")

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for required fields and valid values
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	seen := make(map[string]bool, len(c.Targets))
	for i, target := range c.Targets {
		if target.Name == "" {
			return fmt.Errorf("target[%d]: name is required", i)
		}
		if seen[target.Name] {
			return fmt.Errorf("target[%d]: duplicate name %q", i, target.Name)
		}
		seen[target.Name] = true

		if target.URL == "" {
			return fmt.Errorf("target[%d] %q: url is required", i, target.Name)
		}
		u, err := url.Parse(target.URL)
		if err != nil {
			return fmt.Errorf("target[%d] %q: invalid url: %w", i, target.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("target[%d] %q: url scheme must be http or https, got %q", i, target.Name, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("target[%d] %q: url has no host", i, target.Name)
		}
	}

	if c.Global.Interval <= 0 {
		return fmt.Errorf("global.interval must be positive")
	}
	if c.Global.Timeout <= 0 {
		return fmt.Errorf("global.timeout must be positive")
	}
	if c.Global.Timeout >= c.Global.Interval {
		return fmt.Errorf("global.timeout must be less than global.interval")
	}
	if c.Global.Window < 1 {
		return fmt.Errorf("global.window must be at least 1")
	}

	if c.Probe.Method == "" {
		return fmt.Errorf("probe.method must not be empty")
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", c.Logging.Format)
	}

	return nil
}
