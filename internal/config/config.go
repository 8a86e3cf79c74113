// Package config loads the trendradar configuration: source definitions,
// ranking weight overrides, and persistence paths. Defaults are embedded and
// written to the user config path on first run.
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/matheuskafuri/trendradar/internal/rank"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source defines one trend source. Type "rss" needs a feed URL;
// "hackernews" does not.
type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// RankOverrides adjusts the default ranking weights. Zero fields keep the
// defaults.
type RankOverrides struct {
	FreshnessWeight  float64  `yaml:"freshness_weight,omitempty"`
	PopularityWeight float64  `yaml:"popularity_weight,omitempty"`
	InfraWeight      float64  `yaml:"infra_weight,omitempty"`
	ROIWeight        float64  `yaml:"roi_weight,omitempty"`
	HalfLifeDays     float64  `yaml:"half_life_days,omitempty"`
	Keywords         []string `yaml:"keywords,omitempty"`
}

type Config struct {
	Timeout   string        `yaml:"timeout,omitempty"`
	MaxItems  int           `yaml:"max_items,omitempty"`
	Retention string        `yaml:"retention,omitempty"`
	History   bool          `yaml:"history"`
	Output    string        `yaml:"output,omitempty"`
	Sources   []Source      `yaml:"sources"`
	Rank      RankOverrides `yaml:"rank,omitempty"`
}

// TimeoutDuration returns the per-attempt HTTP timeout, defaulting to 15s.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// RetentionDuration returns the history-cache retention, defaulting to 30
// days. Supports the "Nd" day shorthand alongside time.ParseDuration units.
func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 30 * 24 * time.Hour
	}
	if n := len(c.Retention); n > 1 && c.Retention[n-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(c.Retention, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// EnabledSources returns the sources with enabled: true, in config order.
func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// RankConfig applies the configured overrides on top of the defaults.
func (c *Config) RankConfig() rank.Config {
	cfg := rank.DefaultConfig()
	if c.Rank.FreshnessWeight > 0 {
		cfg.FreshnessWeight = c.Rank.FreshnessWeight
	}
	if c.Rank.PopularityWeight > 0 {
		cfg.PopularityWeight = c.Rank.PopularityWeight
	}
	if c.Rank.InfraWeight > 0 {
		cfg.InfraWeight = c.Rank.InfraWeight
	}
	if c.Rank.ROIWeight > 0 {
		cfg.ROIWeight = c.Rank.ROIWeight
	}
	if c.Rank.HalfLifeDays > 0 {
		cfg.HalfLifeDays = c.Rank.HalfLifeDays
	}
	if len(c.Rank.Keywords) > 0 {
		cfg.InfraKeywords = c.Rank.Keywords
	}
	return cfg
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "trendradar", "config.yaml")
}

// HistoryPath is the location of the sqlite history cache.
func HistoryPath() string {
	return filepath.Join(xdg.CacheHome, "trendradar", "history.db")
}

// DefaultOutputPath is the envelope location used when no output path is
// configured or flagged.
func DefaultOutputPath() string {
	return filepath.Join(xdg.DataHome, "trendradar", "trends.json")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path, or the default path when path is empty.
// A missing file falls back to the embedded defaults, which are also
// written out for the user to edit.
func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Best effort; embedded defaults work either way.
			writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		switch s.Type {
		case "rss":
			if s.URL == "" {
				return fmt.Errorf("source %q: url is required for rss sources", s.Name)
			}
			u, err := url.Parse(s.URL)
			if err != nil {
				return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
			}
		case "hackernews":
			// No URL needed.
		default:
			return fmt.Errorf("source %q: unknown type %q (valid: rss, hackernews)", s.Name, s.Type)
		}
	}
	return nil
}
