package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuskafuri/trendradar/internal/rank"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected at least one default source")
	}
	if !cfg.History {
		t.Error("expected history enabled by default")
	}
	if cfg.TimeoutDuration() != 15*time.Second {
		t.Errorf("expected 15s default timeout, got %v", cfg.TimeoutDuration())
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"30d", 30},
		{"45d", 45},
		{"720h", 30},
		{"", 30},
		{"invalid", 30},
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		got := cfg.RetentionDuration()
		if got.Hours() != float64(tt.wantDays*24) {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true},
		},
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(enabled))
	}
	if enabled[0].Name != "A" || enabled[1].Name != "C" {
		t.Errorf("unexpected enabled sources: %v", enabled)
	}
}

func TestRankConfigOverrides(t *testing.T) {
	cfg := &Config{Rank: RankOverrides{FreshnessWeight: 40, HalfLifeDays: 3}}
	rc := cfg.RankConfig()

	if rc.FreshnessWeight != 40 {
		t.Errorf("freshness = %v, want 40", rc.FreshnessWeight)
	}
	if rc.HalfLifeDays != 3 {
		t.Errorf("half-life = %v, want 3", rc.HalfLifeDays)
	}
	if rc.PopularityWeight != rank.DefaultConfig().PopularityWeight {
		t.Errorf("popularity should keep default, got %v", rc.PopularityWeight)
	}
	if len(rc.InfraKeywords) == 0 {
		t.Error("keywords should keep defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `timeout: 5s
sources:
  - name: myfeed
    type: rss
    url: https://example.com/feed
    enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeoutDuration() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.TimeoutDuration())
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "myfeed" {
		t.Errorf("unexpected sources: %+v", cfg.Sources)
	}
}

func TestLoadRejectsInvalidSources(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"missing name",
			"sources:\n  - type: rss\n    url: https://example.com/feed\n    enabled: true\n",
		},
		{
			"rss without url",
			"sources:\n  - name: x\n    type: rss\n    enabled: true\n",
		},
		{
			"bad scheme",
			"sources:\n  - name: x\n    type: rss\n    url: ftp://example.com/feed\n    enabled: true\n",
		},
		{
			"unknown type",
			"sources:\n  - name: x\n    type: gopher\n    enabled: true\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected embedded defaults")
	}
}
