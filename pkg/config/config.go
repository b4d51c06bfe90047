// Package config loads the per-run configuration file. Secrets (API keys,
// DATABASE_URL) never live here; they come from the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the run configuration.
type Config struct {
	SecurityID string `yaml:"security_id"`
	Date       string `yaml:"date"` // analysis date, YYYY-MM-DD
	Year       int    `yaml:"year"` // fiscal year; 0 derives from the date
	Benchmark  string `yaml:"benchmark"`

	Provider       string `yaml:"provider"` // gemini or deepseek
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`

	CachePath   string `yaml:"cache_path"`
	SnapshotDir string `yaml:"snapshot_dir"`

	News struct {
		WindowDays     int  `yaml:"window_days"`
		Pages          int  `yaml:"pages"`
		CachedComplete bool `yaml:"cached_complete"`
	} `yaml:"news"`

	Curator struct {
		MinContentLength    int     `yaml:"min_content_length"`
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		MaxItems            int     `yaml:"max_items"`
	} `yaml:"curator"`

	AdvisoryCharBudget int `yaml:"advisory_char_budget"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{
		Provider:    "gemini",
		CachePath:   "cache.db",
		SnapshotDir: "snapshots",
	}
	c.News.WindowDays = 30
	c.News.Pages = 3
	c.News.CachedComplete = true
	c.Curator.MinContentLength = 120
	c.Curator.SimilarityThreshold = 0.92
	c.Curator.MaxItems = 50
	c.AdvisoryCharBudget = 2000
	return c
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the fields every run needs.
func (c *Config) Validate() error {
	if c.SecurityID == "" {
		return fmt.Errorf("security_id is required")
	}
	if c.Date == "" {
		return fmt.Errorf("date is required")
	}
	switch c.Provider {
	case "gemini", "deepseek":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}
