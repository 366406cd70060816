package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.QuoteCurrency != "USD" {
		t.Errorf("QuoteCurrency default = %q, want USD", cfg.QuoteCurrency)
	}
	if cfg.Reward.MinPatternLength != 3 {
		t.Errorf("Reward.MinPatternLength default = %d, want 3", cfg.Reward.MinPatternLength)
	}
	if cfg.Output.Path != "-" {
		t.Errorf("Output.Path default = %q, want -", cfg.Output.Path)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RECKON_INPUT_DIR", "/tmp/snapshots")
	t.Setenv("RECKON_QUOTE_CURRENCY", "eur")
	t.Setenv("RECKON_ASSETS", "BTC, ETH,,SOL")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)
	validateQuoteCurrency(cfg)

	if cfg.Input.Dir != "/tmp/snapshots" {
		t.Errorf("Input.Dir = %q after env override, want /tmp/snapshots", cfg.Input.Dir)
	}
	if cfg.QuoteCurrency != "EUR" {
		t.Errorf("QuoteCurrency = %q after env override, want EUR", cfg.QuoteCurrency)
	}
	if len(cfg.Assets) != 3 || cfg.Assets[2] != "SOL" {
		t.Errorf("Assets = %v after env override, want [BTC ETH SOL]", cfg.Assets)
	}
}

func TestLoadConfig_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reckon.toml")
	content := `
quote_currency = "AUD"

[input]
dir = "fixtures"

[reward]
min_pattern_length = 4
materiality_pct = 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.QuoteCurrency != "AUD" {
		t.Errorf("QuoteCurrency = %q, want AUD", cfg.QuoteCurrency)
	}
	if cfg.Input.Dir != "fixtures" {
		t.Errorf("Input.Dir = %q, want fixtures", cfg.Input.Dir)
	}
	if cfg.Reward.MinPatternLength != 4 {
		t.Errorf("Reward.MinPatternLength = %d, want 4", cfg.Reward.MinPatternLength)
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/reckon.toml")
	if err != nil {
		t.Fatalf("LoadConfig with missing file: %v", err)
	}
	if cfg.QuoteCurrency != "USD" {
		t.Errorf("QuoteCurrency = %q, want default USD", cfg.QuoteCurrency)
	}
}

func TestLoadConfig_RejectsLoosePattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reckon.toml")
	content := `
[reward]
min_pattern_length = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for min_pattern_length below 3, got nil")
	}
}
