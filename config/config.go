// Package config provides configuration loading and management for semunits.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semunits/vocabulary/omex"
)

// Config represents the complete semunits configuration
type Config struct {
	Archive  ArchiveConfig  `yaml:"archive"`
	Annotate AnnotateConfig `yaml:"annotate"`
	Log      LogConfig      `yaml:"log"`
	Watch    WatchConfig    `yaml:"watch"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ArchiveConfig configures the OMEX identifier scheme
type ArchiveConfig struct {
	// Name is the default archive name used in identifiers (e.g., "kidney.omex")
	Name string `yaml:"name"`
	// Root is the directory model source names are made relative to (empty = base name only)
	Root string `yaml:"root"`
}

// AnnotateConfig configures annotation behaviour
type AnnotateConfig struct {
	// Tables is a YAML file of compartment/species overrides
	Tables string `yaml:"tables"`
	// Prefixes are extra namespace bindings written to the annotation file
	Prefixes map[string]string `yaml:"prefixes"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `yaml:"level"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is the quiet period after a change before a run starts
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	// File is a Prometheus textfile written after each run (empty = disabled)
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Name: "", // Required on the command line if unset
			Root: "",
		},
		Annotate: AnnotateConfig{
			Tables:   "", // Built-in tables
			Prefixes: nil,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			File: "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Archive.Name != "" {
		if err := omex.ValidateName("archive", c.Archive.Name); err != nil {
			return fmt.Errorf("archive.name: %w", err)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	for prefix, ns := range c.Annotate.Prefixes {
		if prefix == "" || ns == "" {
			return fmt.Errorf("annotate.prefixes: empty prefix or namespace")
		}
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", level)
	}
}

// LoadFromFile loads configuration from a YAML file. Fields the file does
// not set keep their default values.
func LoadFromFile(path string) (*Config, error) {
	layer, err := loadLayer(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// loadLayer reads a YAML file into a zero Config, so that fields the file
// does not set stay empty and Merge skips them.
func loadLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Archive
	if other.Archive.Name != "" {
		c.Archive.Name = other.Archive.Name
	}
	if other.Archive.Root != "" {
		c.Archive.Root = other.Archive.Root
	}

	// Annotate
	if other.Annotate.Tables != "" {
		c.Annotate.Tables = other.Annotate.Tables
	}
	if len(other.Annotate.Prefixes) > 0 {
		if c.Annotate.Prefixes == nil {
			c.Annotate.Prefixes = make(map[string]string, len(other.Annotate.Prefixes))
		}
		for prefix, ns := range other.Annotate.Prefixes {
			c.Annotate.Prefixes[prefix] = ns
		}
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Metrics
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}
}
