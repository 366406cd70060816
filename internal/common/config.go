// Package common provides shared utilities for Reckon
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Reckon
type Config struct {
	Environment   string        `toml:"environment"`
	QuoteCurrency string        `toml:"quote_currency"` // quote currency trades are priced in (default "USD")
	Assets        []string      `toml:"assets"`         // asset symbols to include; empty means every asset in the input
	Input         InputConfig   `toml:"input"`
	Output        OutputConfig  `toml:"output"`
	Reward        RewardConfig  `toml:"reward"`
	Logging       LoggingConfig `toml:"logging"`
}

// InputConfig holds the location of the materialized input snapshots
type InputConfig struct {
	Dir string `toml:"dir"` // directory containing trades.json, transfers.json, balances.json, prices.json
}

// OutputConfig holds report output configuration
type OutputConfig struct {
	Path   string `toml:"path"`   // report destination; empty or "-" writes to stdout
	Pretty bool   `toml:"pretty"` // indent the JSON report
}

// RewardConfig tunes the reward classification heuristic. Defaults are
// deliberately conservative; loosening them increases the chance an
// ordinary deposit is misread as a reward.
type RewardConfig struct {
	MinPatternLength      int     `toml:"min_pattern_length"`      // minimum deposits in a recurring pattern (>= 3)
	MaterialityPct        float64 `toml:"materiality_pct"`         // deposit size ceiling as % of total holdings
	IntervalTolerancePct  float64 `toml:"interval_tolerance_pct"`  // allowed deviation between deposit intervals
	MagnitudeTolerancePct float64 `toml:"magnitude_tolerance_pct"` // allowed deviation between deposit magnitudes
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:   "development",
		QuoteCurrency: "USD",
		Input: InputConfig{
			Dir: "data",
		},
		Output: OutputConfig{
			Path:   "-",
			Pretty: true,
		},
		Reward: RewardConfig{
			MinPatternLength:      3,
			MaterialityPct:        1.0,
			IntervalTolerancePct:  25.0,
			MagnitudeTolerancePct: 50.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	// Validate
	validateQuoteCurrency(config)
	if err := validateReward(&config.Reward); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RECKON_ENV"); env != "" {
		config.Environment = env
	}

	if dir := os.Getenv("RECKON_INPUT_DIR"); dir != "" {
		config.Input.Dir = dir
	}

	if path := os.Getenv("RECKON_OUTPUT_PATH"); path != "" {
		config.Output.Path = path
	}

	if level := os.Getenv("RECKON_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if qc := os.Getenv("RECKON_QUOTE_CURRENCY"); qc != "" {
		config.QuoteCurrency = strings.ToUpper(qc)
	}

	if assets := os.Getenv("RECKON_ASSETS"); assets != "" {
		var filtered []string
		for _, a := range strings.Split(assets, ",") {
			if a = strings.TrimSpace(a); a != "" {
				filtered = append(filtered, a)
			}
		}
		config.Assets = filtered
	}

	if n := os.Getenv("RECKON_REWARD_MIN_PATTERN"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			config.Reward.MinPatternLength = v
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateQuoteCurrency ensures QuoteCurrency is a plausible fiat/stable
// code, defaulting to "USD".
func validateQuoteCurrency(config *Config) {
	qc := strings.ToUpper(strings.TrimSpace(config.QuoteCurrency))
	if len(qc) < 3 || len(qc) > 5 {
		qc = "USD"
	}
	config.QuoteCurrency = qc
}

// validateReward rejects heuristic settings that would make the classifier
// aggressive instead of conservative.
func validateReward(r *RewardConfig) error {
	if r.MinPatternLength < 3 {
		return fmt.Errorf("reward.min_pattern_length must be at least 3, got %d", r.MinPatternLength)
	}
	if r.MaterialityPct <= 0 || r.MaterialityPct > 100 {
		return fmt.Errorf("reward.materiality_pct must be in (0,100], got %v", r.MaterialityPct)
	}
	return nil
}
