// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/artpar/modelkit/core/formatter"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Output      OutputConfig      `yaml:"output"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`   // "trace", "debug", "info", "warn", "error"
	Format string `yaml:"format" default:"json"` // "json" or "console"
}

// DefinitionsConfig configures where YAML model definitions are loaded from.
type DefinitionsConfig struct {
	Dir   string `yaml:"dir" default:"models"`
	Watch bool   `yaml:"watch"` // Rebuild types when definition files change
}

// OutputConfig configures record text output.
type OutputConfig struct {
	Format  string `yaml:"format" default:"json"` // Any registered formatter name
	Compact bool   `yaml:"compact"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" default:"modelkit"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	MODELKIT_LOG_LEVEL          - Log level: trace, debug, info, warn, error (default: info)
//	MODELKIT_LOG_FORMAT         - Log format: json or console (default: json)
//	MODELKIT_DEFINITIONS_DIR    - Model definitions directory (default: models)
//	MODELKIT_DEFINITIONS_WATCH  - Rebuild types on definition changes (default: false)
//	MODELKIT_OUTPUT_FORMAT      - Record output format: json, yaml, table (default: json)
//	MODELKIT_OUTPUT_COMPACT     - Compact record output (default: false)
//	MODELKIT_METRICS_ENABLED    - Enable Prometheus metrics (default: false)
//	MODELKIT_METRICS_NAMESPACE  - Metric name prefix (default: modelkit)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads from file when it exists and falls back to
// environment variables otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// HasEnvConfig returns true if any MODELKIT_* variable is set.
func HasEnvConfig() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "MODELKIT_") {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies MODELKIT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Logging configuration
	if v := os.Getenv("MODELKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MODELKIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Definitions configuration
	if v := os.Getenv("MODELKIT_DEFINITIONS_DIR"); v != "" {
		cfg.Definitions.Dir = v
	}
	if v := os.Getenv("MODELKIT_DEFINITIONS_WATCH"); v != "" {
		cfg.Definitions.Watch = parseBool(v)
	}

	// Output configuration
	if v := os.Getenv("MODELKIT_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("MODELKIT_OUTPUT_COMPACT"); v != "" {
		cfg.Output.Compact = parseBool(v)
	}

	// Metrics configuration
	if v := os.Getenv("MODELKIT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("MODELKIT_METRICS_NAMESPACE"); v != "" {
		cfg.Metrics.Namespace = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
}

func validate(cfg *Config) error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if _, ok := formatter.Get(cfg.Output.Format); !ok {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(formatter.List(), ", "), cfg.Output.Format)
	}

	if strings.TrimSpace(cfg.Definitions.Dir) == "" {
		return fmt.Errorf("definitions.dir is required")
	}

	return nil
}
