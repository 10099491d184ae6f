// Package config loads neurosym configuration from YAML with environment
// overrides. Missing files fall back to the built-in defaults so the CLI
// works with zero setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"neurosym/internal/coherence"
)

// Config holds all neurosym configuration.
type Config struct {
	// Classification bands for the composite coherence score.
	Coherence coherence.Thresholds `yaml:"coherence"`

	// Phase-advancement rules for training sessions.
	Phases coherence.PhaseRules `yaml:"phases"`

	// Synthetic training loop settings.
	Trainer TrainerConfig `yaml:"trainer"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// TrainerConfig configures the synthetic training loop.
type TrainerConfig struct {
	// Steps per session.
	Steps int `yaml:"steps"`

	// Interval between steps, as a Go duration string ("100ms").
	Interval string `yaml:"interval"`

	// Sessions run concurrently, one goroutine each.
	Sessions int `yaml:"sessions"`

	// Seed for the synthetic signal source; 0 means time-seeded.
	Seed int64 `yaml:"seed"`

	// Coherence level ramp: level = min(StartLevel + step*Ramp, MaxLevel).
	StartLevel float64 `yaml:"start_level"`
	MaxLevel   float64 `yaml:"max_level"`
	Ramp       float64 `yaml:"ramp"`

	// Nominal channel frequencies in Hz.
	BaseFrequencies ChannelFrequencies `yaml:"base_frequencies"`
}

// ChannelFrequencies holds the nominal frequency per biometric channel.
type ChannelFrequencies struct {
	Breath   float64 `yaml:"breath"`   // 0.25 Hz = 15 breaths/min
	Heart    float64 `yaml:"heart"`    // 1.2 Hz = 72 BPM
	Movement float64 `yaml:"movement"` // 0.5 Hz gait rhythm
	Neural   float64 `yaml:"neural"`   // 10 Hz alpha band
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() *Config {
	return &Config{
		Coherence: coherence.DefaultThresholds(),
		Phases:    coherence.DefaultPhaseRules(),
		Trainer: TrainerConfig{
			Steps:      20,
			Interval:   "100ms",
			Sessions:   1,
			StartLevel: 0.30,
			MaxLevel:   0.95,
			Ramp:       0.04,
			BaseFrequencies: ChannelFrequencies{
				Breath:   0.25,
				Heart:    1.2,
				Movement: 0.5,
				Neural:   10.0,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file. A missing file returns the
// defaults; environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("NEUROSYM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if seed := os.Getenv("NEUROSYM_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Trainer.Seed = v
		}
	}
}

// StepInterval parses the trainer interval, falling back to the default
// pacing when the string is empty or malformed.
func (t TrainerConfig) StepInterval() time.Duration {
	d, err := time.ParseDuration(t.Interval)
	if err != nil || d < 0 {
		return 100 * time.Millisecond
	}
	return d
}
