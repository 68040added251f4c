// Package config loads and validates the YAML scraping configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scraper backend keys accepted in `rss_feeds` and `scrapers`.
const (
	BackendHeadless = "headless"
	BackendStealth  = "stealth"
)

// Configuration validation errors.
var (
	ErrMissingDBPath       = errors.New("global.db_path is required")
	ErrUnknownBackend      = errors.New("unknown scraper backend")
	ErrFeedMissingURL      = errors.New("feed url is required")
	ErrInvalidLimit        = errors.New("global.articles_limit must be non-negative")
	ErrInvalidTimeout      = errors.New("global.timeout must be non-negative")
	ErrInvalidDateThreshold = errors.New("global.date_threshold must be YYYY-MM-DD")
)

// dateThresholdLayout is the accepted format for global.date_threshold.
const dateThresholdLayout = "2006-01-02"

// Config represents the complete ingestion configuration.
type Config struct {
	Global   GlobalConfig             `yaml:"global"`
	RSSFeeds map[string][]FeedConfig  `yaml:"rss_feeds"`
	Scrapers map[string]ScraperConfig `yaml:"scrapers"`
}

// GlobalConfig contains run-wide settings.
type GlobalConfig struct {
	DBPath        string `yaml:"db_path"`
	ArticlesLimit int    `yaml:"articles_limit"`
	DateThreshold string `yaml:"date_threshold"`
	TimeoutSec    int    `yaml:"timeout"`
}

// FeedConfig represents one RSS feed entry within a backend group.
type FeedConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

// IsEnabled reports whether the feed participates in runs. Absent means
// enabled.
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// ScraperConfig holds backend-specific launch options.
type ScraperConfig struct {
	Headless   *bool    `yaml:"headless"`
	Stealth    bool     `yaml:"stealth"`
	UserAgent  string   `yaml:"user_agent"`
	WaitMs     int      `yaml:"wait_ms"`
	LaunchArgs []string `yaml:"launch_args"`
}

// IsHeadless reports whether the browser runs headless. Absent means headless.
func (s ScraperConfig) IsHeadless() bool {
	return s.Headless == nil || *s.Headless
}

// Load reads and validates configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c.Global.DBPath == "" {
		return ErrMissingDBPath
	}
	if c.Global.ArticlesLimit < 0 {
		return ErrInvalidLimit
	}
	if c.Global.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}
	if _, err := c.DateThreshold(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateThreshold, c.Global.DateThreshold)
	}

	for backend, feeds := range c.RSSFeeds {
		if !knownBackend(backend) {
			return fmt.Errorf("%w: %q in rss_feeds", ErrUnknownBackend, backend)
		}
		for _, feed := range feeds {
			if feed.URL == "" {
				return fmt.Errorf("%w: feed %q in backend %q", ErrFeedMissingURL, feed.Name, backend)
			}
		}
	}
	for backend := range c.Scrapers {
		if !knownBackend(backend) {
			return fmt.Errorf("%w: %q in scrapers", ErrUnknownBackend, backend)
		}
	}

	return nil
}

// DateThreshold parses global.date_threshold. A zero time (and nil error) is
// returned when the threshold is unset.
func (c *Config) DateThreshold() (time.Time, error) {
	if c.Global.DateThreshold == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateThresholdLayout, c.Global.DateThreshold)
}

// Timeout returns the per-fetch timeout, defaulting to 30 seconds.
func (c *Config) Timeout() time.Duration {
	if c.Global.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Global.TimeoutSec) * time.Second
}

// Scraper returns the launch options for a backend, or a zero value when the
// backend has no explicit section.
func (c *Config) Scraper(backend string) ScraperConfig {
	return c.Scrapers[backend]
}

func knownBackend(name string) bool {
	return name == BackendHeadless || name == BackendStealth
}
