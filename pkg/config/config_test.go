package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	raw := `
security_id: SEC123
date: "2024-01-15"
year: 2023
provider: deepseek
news:
  window_days: 14
curator:
  max_items: 20
`
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SecurityID != "SEC123" || cfg.Year != 2023 {
		t.Errorf("explicit fields not loaded: %+v", cfg)
	}
	if cfg.News.WindowDays != 14 {
		t.Errorf("nested override not applied: %d", cfg.News.WindowDays)
	}
	if cfg.Curator.MaxItems != 20 {
		t.Errorf("curator override not applied: %d", cfg.Curator.MaxItems)
	}
	// Untouched fields keep their defaults.
	if cfg.Curator.SimilarityThreshold != 0.92 {
		t.Errorf("default similarity threshold lost: %v", cfg.Curator.SimilarityThreshold)
	}
	if cfg.CachePath != "cache.db" {
		t.Errorf("default cache path lost: %q", cfg.CachePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure without security_id and date")
	}

	cfg.SecurityID = "SEC123"
	cfg.Date = "2024-01-15"
	cfg.Provider = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for unknown provider")
	}
}
